package bench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spatialbench/spatialbench/internal/engine"
)

// Configure applies the execution mode and, when requested, the partition
// count to the engine. It issues each directive exactly once; re-invoking
// with the same options reproduces the same engine state. A rejected
// directive is fatal and reported with the statement that failed.
func Configure(ctx context.Context, h engine.Handle, d Dialect, logger *slog.Logger, opts Options) error {
	if directive, ok := d.GPUJoinDirective(opts.Mode); ok {
		if err := h.Exec(ctx, directive); err != nil {
			return fmt.Errorf("set execution mode (%s): %w", directive, err)
		}
		logger.Info("execution mode set", slog.String("mode", string(opts.Mode)))
	} else {
		logger.Warn("engine has no GPU join operator, requested mode ignored",
			slog.String("engine", d.Name()),
			slog.String("mode", string(opts.Mode)))
	}

	if opts.TargetPartitions > 0 {
		directive, ok := d.TargetPartitionsDirective(opts.TargetPartitions)
		if !ok {
			logger.Warn("engine exposes no partition knob, target partitions ignored",
				slog.String("engine", d.Name()),
				slog.Int("target_partitions", opts.TargetPartitions))
			return nil
		}
		if err := h.Exec(ctx, directive); err != nil {
			return fmt.Errorf("set target partitions (%s): %w", directive, err)
		}
		logger.Info("target partitions set", slog.Int("target_partitions", opts.TargetPartitions))
	}
	return nil
}
