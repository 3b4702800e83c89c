package bench

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spatialbench/spatialbench/internal/engine"
)

var errMalformed = errors.New("malformed directive")

// stubHandle records every statement and answers queries from a script.
type stubHandle struct {
	execs    []string
	queries  []string
	execErr  func(sqlText string) error
	queryFn  func(sqlText string) (engine.Result, error)
	perQuery time.Duration
}

func (s *stubHandle) Exec(_ context.Context, sqlText string) error {
	s.execs = append(s.execs, sqlText)
	if s.execErr != nil {
		return s.execErr(sqlText)
	}
	return nil
}

func (s *stubHandle) Query(_ context.Context, sqlText string) (engine.Result, error) {
	s.queries = append(s.queries, sqlText)
	if s.perQuery > 0 {
		time.Sleep(s.perQuery)
	}
	if s.queryFn != nil {
		return s.queryFn(sqlText)
	}
	return engine.Result{Columns: []string{"c"}, Rows: [][]any{{int64(0)}}}, nil
}

func (s *stubHandle) Close() error { return nil }

func (s *stubHandle) execsMatching(substr string) []string {
	matched := make([]string, 0)
	for _, stmt := range s.execs {
		if strings.Contains(stmt, substr) {
			matched = append(matched, stmt)
		}
	}
	return matched
}

func gpuOptions(prefix string) Options {
	return Options{
		DataPrefix: prefix,
		Mode:       ModeGPU,
		Repeat:     1,
	}
}
