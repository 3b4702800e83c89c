package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spatialbench/spatialbench/internal/engine"
	"github.com/spatialbench/spatialbench/internal/observability"
)

// Runner drives one benchmark definition through the full protocol:
// configure, bootstrap, plan inspection, timed loop. Steps run strictly
// sequentially against a single exclusively-owned handle.
type Runner struct {
	Handle  engine.Handle
	Dialect Dialect
	Logger  *slog.Logger
	Out     io.Writer
}

func (r Runner) Run(ctx context.Context, def Definition, opts Options) (RunResult, error) {
	if err := opts.Validate(def); err != nil {
		return RunResult{}, err
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	logger.Info("benchmark starting",
		slog.String("query", def.ID),
		slog.String("mode", string(opts.Mode)),
		slog.String("engine", r.Dialect.Name()),
		slog.Int("repeat", opts.Repeat))
	logLimits(logger, def, opts)

	if err := Configure(ctx, r.Handle, r.Dialect, logger, opts); err != nil {
		observability.IncRun(def.ID, string(opts.Mode), "error")
		return RunResult{}, err
	}
	if err := Bootstrap(ctx, r.Handle, r.Dialect, logger, def, opts); err != nil {
		observability.IncRun(def.ID, string(opts.Mode), "error")
		return RunResult{}, err
	}

	plan, err := InspectPlan(ctx, r.Handle, r.Dialect, def, opts)
	if err != nil {
		observability.IncRun(def.ID, string(opts.Mode), "error")
		return RunResult{}, err
	}
	fmt.Fprintf(out, "Execution plan for %s (%s mode):\n%s\n", def.ID, strings.ToUpper(string(opts.Mode)), plan)

	logger.Info("running timed query", slog.String("query", def.ID), slog.String("description", def.Description))
	previewRows := opts.PreviewRows
	if previewRows == 0 {
		previewRows = def.PreviewRows
	}
	observe := func(d time.Duration) {
		observability.ObserveQueryDuration(def.ID, string(opts.Mode), d)
	}
	result, err := TimedRun(ctx, r.Handle, out, def.ExecSQL(opts), opts.Repeat, previewRows, observe)
	if err != nil {
		observability.IncRun(def.ID, string(opts.Mode), "error")
		return RunResult{}, fmt.Errorf("run %s: %w", def.ID, err)
	}

	observability.IncRun(def.ID, string(opts.Mode), "ok")
	fmt.Fprintf(out, "Avg execution time (%s mode): %.3fs\n", strings.ToUpper(string(opts.Mode)), result.MeanSeconds())
	return result, nil
}

func logLimits(logger *slog.Logger, def Definition, opts Options) {
	attrs := make([]any, 0, len(def.Views))
	for _, view := range def.Views {
		if limit, ok := opts.Limit(view.Role); ok {
			attrs = append(attrs, slog.Int(string(view.Role)+"_limit", limit))
		}
	}
	if len(attrs) == 0 {
		logger.Info("no limits applied, using full dataset")
		return
	}
	logger.Info("row limits applied", attrs...)
}
