package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/spatialbench/spatialbench/internal/engine"
)

// Open starts an in-process DuckDB instance with the spatial extension
// loaded. DuckDB has no GPU join operator; this backend exists to validate
// the benchmark SQL and datasets without the external engine.
func Open(ctx context.Context) (*engine.SQLHandle, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	for _, stmt := range []string{"INSTALL spatial", "LOAD spatial"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return engine.NewSQLHandle(db), nil
}
