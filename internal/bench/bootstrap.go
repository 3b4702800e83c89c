package bench

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spatialbench/spatialbench/internal/engine"
)

// Bootstrap registers the external tables the definition needs and builds
// one geometry view per role, tables first, both stages in the definition's
// role order. Views use replace semantics so a repeated run rebuilds them
// with the current limits.
func Bootstrap(ctx context.Context, h engine.Handle, d Dialect, logger *slog.Logger, def Definition, opts Options) error {
	for _, view := range def.Views {
		location := TableLocation(opts.DataPrefix, view.Role)
		stmt := d.RegisterTableSQL(view.Role, location)
		if err := h.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("register table %s (%s): %w", view.Role.TableName(), stmt, err)
		}
		logger.Info("external table registered",
			slog.String("table", view.Role.TableName()),
			slog.String("location", location))
	}

	for _, view := range def.Views {
		stmt := ViewSQL(view, opts)
		if err := h.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create view %s (%s): %w", view.Role.ViewName(), stmt, err)
		}
		limit, limited := opts.Limit(view.Role)
		if limited {
			logger.Info("geometry view created", slog.String("view", view.Role.ViewName()), slog.Int("limit", limit))
		} else {
			logger.Info("geometry view created", slog.String("view", view.Role.ViewName()))
		}
	}
	return nil
}

// TableLocation is the trailing-slash directory convention the engine's
// external table registration expects.
func TableLocation(dataPrefix string, role Role) string {
	return strings.TrimRight(dataPrefix, "/") + "/" + string(role) + "/"
}

// ViewSQL builds the create-or-replace view statement for one role: the
// projected columns, the parsed geometry column(s), and a LIMIT clause only
// when a validated limit exists for the role. No limit means no clause; the
// view must never silently become empty.
func ViewSQL(view ViewSpec, opts Options) string {
	projections := make([]string, 0, len(view.Columns)+len(view.Geoms))
	projections = append(projections, view.Columns...)
	for _, geom := range view.Geoms {
		projections = append(projections, fmt.Sprintf("ST_GeomFromWKB(%s) AS %s", geom.Source, geom.Alias))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE VIEW %s AS\n", view.Role.ViewName())
	fmt.Fprintf(&b, "SELECT %s\n", strings.Join(projections, ", "))
	fmt.Fprintf(&b, "FROM %s", view.Role.TableName())
	if limit, ok := opts.Limit(view.Role); ok {
		fmt.Fprintf(&b, "\nLIMIT %d", limit)
	}
	return b.String()
}
