package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestQueryMaterializesAndNormalizesRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	handle := NewSQLHandle(db)
	defer func() { _ = handle.Close() }()

	mock.ExpectQuery("SELECT z_name FROM zone_geom").WillReturnRows(
		sqlmock.NewRows([]string{"z_name"}).AddRow([]byte("Coconino County")).AddRow("Yavapai County"),
	)

	result, err := handle.Query(context.Background(), "SELECT z_name FROM zone_geom;")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "Coconino County" {
		t.Fatalf("byte column not normalized to string: %#v", result.Rows[0][0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestQueryRejectsEmptySQL(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	handle := NewSQLHandle(db)
	defer func() { _ = handle.Close() }()

	if _, err := handle.Query(context.Background(), " ;; "); err == nil {
		t.Fatal("Query() expected error for empty sql")
	}
	if err := handle.Exec(context.Background(), ""); err == nil {
		t.Fatal("Exec() expected error for empty sql")
	}
}

func TestExecStripsTrailingSemicolons(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	handle := NewSQLHandle(db)
	defer func() { _ = handle.Close() }()

	mock.ExpectExec("SET datafusion.execution.target_partitions = 8").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := handle.Exec(context.Background(), "SET datafusion.execution.target_partitions = 8;"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRenderPreviewBoundsRows(t *testing.T) {
	result := Result{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{int64(1), "alpha"},
			{int64(2), nil},
			{int64(3), "gamma"},
		},
	}

	preview := RenderPreview(result, 2)
	if !strings.Contains(preview, "alpha") {
		t.Fatalf("preview missing first row: %q", preview)
	}
	if strings.Contains(preview, "gamma") {
		t.Fatalf("preview should truncate third row: %q", preview)
	}
	if !strings.Contains(preview, "... 1 more rows") {
		t.Fatalf("preview missing truncation marker: %q", preview)
	}
	if !strings.Contains(preview, "NULL") {
		t.Fatalf("preview should render nil as NULL: %q", preview)
	}

	full := RenderPreview(result, 0)
	if !strings.Contains(full, "gamma") {
		t.Fatalf("unbounded preview missing rows: %q", full)
	}
}
