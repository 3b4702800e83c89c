package bench

import (
	"context"
	"fmt"
	"strings"

	"github.com/spatialbench/spatialbench/internal/engine"
)

// InspectPlan submits the timed query prefixed with the engine's explain
// directive and returns the rendered physical plan. It runs once per
// invocation, before the timed loop: the operator name in the plan is how a
// silent GPU-to-CPU fallback gets caught.
func InspectPlan(ctx context.Context, h engine.Handle, d Dialect, def Definition, opts Options) (string, error) {
	planSQL := d.ExplainSQL(def.ExecSQL(opts))
	result, err := h.Query(ctx, planSQL)
	if err != nil {
		return "", fmt.Errorf("explain %s (%s): %w", def.ID, planSQL, err)
	}
	return renderPlan(result), nil
}

// renderPlan flattens the explain result into plain text. Engines return
// plans as one or two text columns per row.
func renderPlan(result engine.Result) string {
	var b strings.Builder
	for _, row := range result.Rows {
		cells := make([]string, 0, len(row))
		for _, value := range row {
			if value == nil {
				continue
			}
			text := strings.TrimRight(fmt.Sprintf("%v", value), "\n")
			if text == "" {
				continue
			}
			cells = append(cells, text)
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return b.String()
}
