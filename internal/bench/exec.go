package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spatialbench/spatialbench/internal/engine"
)

// RunResult is the outcome of one completed timed run.
type RunResult struct {
	Mean       time.Duration
	Durations  []time.Duration
	LastResult engine.Result
}

func (r RunResult) MeanSeconds() float64 {
	return r.Mean.Seconds()
}

// TimedRun executes sqlText repeat times sequentially against the handle.
// Each iteration is fully materialized and previewed to out before the next
// one starts; the timer covers submission through materialization only. Any
// failure aborts the remaining iterations and no mean is reported. observe,
// when non-nil, receives each iteration duration.
func TimedRun(ctx context.Context, h engine.Handle, out io.Writer, sqlText string, repeat, previewRows int, observe func(time.Duration)) (RunResult, error) {
	if repeat < 1 {
		return RunResult{}, fmt.Errorf("repeat must be >= 1, got %d", repeat)
	}

	durations := make([]time.Duration, 0, repeat)
	var total time.Duration
	var last engine.Result

	for i := 0; i < repeat; i++ {
		start := time.Now()
		result, err := h.Query(ctx, sqlText)
		if err != nil {
			return RunResult{}, fmt.Errorf("iteration %d/%d: %w", i+1, repeat, err)
		}
		elapsed := time.Since(start)

		durations = append(durations, elapsed)
		total += elapsed
		last = result
		if observe != nil {
			observe(elapsed)
		}
		if out != nil {
			fmt.Fprint(out, engine.RenderPreview(result, previewRows))
		}
	}

	return RunResult{
		Mean:       total / time.Duration(repeat),
		Durations:  durations,
		LastResult: last,
	}, nil
}
