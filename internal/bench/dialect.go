package bench

import (
	"fmt"
	"strings"
)

// Dialect formats the engine-specific directives of the run protocol. The
// benchmark SQL itself is shared; only configuration and table registration
// differ between engines.
type Dialect interface {
	Name() string
	// GPUJoinDirective returns the mode-setting statement, or ok=false when
	// the engine has no GPU join operator to toggle.
	GPUJoinDirective(mode Mode) (string, bool)
	// TargetPartitionsDirective returns the partition-count statement, or
	// ok=false when the engine exposes no such knob.
	TargetPartitionsDirective(partitions int) (string, bool)
	// RegisterTableSQL binds a directory of parquet files to a relation.
	RegisterTableSQL(role Role, location string) string
	// ExplainSQL prefixes a query with the engine's plan-explain directive.
	ExplainSQL(query string) string
}

// DataFusionDialect targets the GPU-capable Sedona/DataFusion engine. This
// is the engine the benchmark exists for.
type DataFusionDialect struct{}

func (DataFusionDialect) Name() string { return "datafusion" }

func (DataFusionDialect) GPUJoinDirective(mode Mode) (string, bool) {
	if mode == ModeGPU {
		return "SET sedona.spatial_join.gpu.enable = true", true
	}
	return "SET sedona.spatial_join.gpu.enable = false", true
}

func (DataFusionDialect) TargetPartitionsDirective(partitions int) (string, bool) {
	return fmt.Sprintf("SET datafusion.execution.target_partitions = %d", partitions), true
}

func (DataFusionDialect) RegisterTableSQL(role Role, location string) string {
	return fmt.Sprintf("CREATE EXTERNAL TABLE %s STORED AS PARQUET LOCATION '%s'", role.TableName(), quoteString(location))
}

func (DataFusionDialect) ExplainSQL(query string) string {
	return "EXPLAIN\n" + query
}

// DuckDBDialect targets the embedded DuckDB backend, used to validate the
// catalog SQL and datasets. DuckDB only has a CPU spatial join.
type DuckDBDialect struct{}

func (DuckDBDialect) Name() string { return "duckdb" }

func (DuckDBDialect) GPUJoinDirective(Mode) (string, bool) { return "", false }

func (DuckDBDialect) TargetPartitionsDirective(partitions int) (string, bool) {
	return fmt.Sprintf("SET threads = %d", partitions), true
}

func (DuckDBDialect) RegisterTableSQL(role Role, location string) string {
	glob := strings.TrimRight(location, "/") + "/*.parquet"
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')", role.TableName(), quoteString(glob))
}

func (DuckDBDialect) ExplainSQL(query string) string {
	return "EXPLAIN " + query
}

func quoteString(value string) string {
	return strings.ReplaceAll(value, `'`, `''`)
}
