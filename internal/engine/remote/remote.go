package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/spatialbench/spatialbench/internal/engine"
)

type Config struct {
	DSN             string
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Open connects to a spatial engine served over the PostgreSQL wire
// protocol. The pool is pinned to a single connection so that SET
// directives apply to every later statement of the run.
func Open(ctx context.Context, cfg Config) (*engine.SQLHandle, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("engine dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open engine connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping engine: %w", err)
	}

	return engine.NewSQLHandle(db), nil
}
