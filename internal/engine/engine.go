package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Handle is a single connection to the spatial engine. A run owns its handle
// exclusively: configuration directives issued through Exec mutate engine
// state for every later Query on the same handle.
type Handle interface {
	// Query runs a statement and materializes the full result.
	Query(ctx context.Context, sqlText string) (Result, error)
	// Exec runs a statement for which no result is expected (SET,
	// CREATE EXTERNAL TABLE, CREATE OR REPLACE VIEW).
	Exec(ctx context.Context, sqlText string) error
	Close() error
}

type Result struct {
	Columns []string
	Rows    [][]any
}

// SQLHandle adapts a database/sql connection to Handle. Both the embedded
// DuckDB backend and remote pg-wire engines go through it.
type SQLHandle struct {
	db *sql.DB
}

func NewSQLHandle(db *sql.DB) *SQLHandle {
	return &SQLHandle{db: db}
}

func (h *SQLHandle) Query(ctx context.Context, sqlText string) (Result, error) {
	sqlText = stripTrailingSemicolons(sqlText)
	if sqlText == "" {
		return Result{}, fmt.Errorf("sql is required")
	}

	rows, err := h.db.QueryContext(ctx, sqlText)
	if err != nil {
		return Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return Result{Columns: columns, Rows: resultRows}, nil
}

func (h *SQLHandle) Exec(ctx context.Context, sqlText string) error {
	sqlText = stripTrailingSemicolons(sqlText)
	if sqlText == "" {
		return fmt.Errorf("sql is required")
	}
	if _, err := h.db.ExecContext(ctx, sqlText); err != nil {
		return err
	}
	return nil
}

func (h *SQLHandle) Close() error {
	return h.db.Close()
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
