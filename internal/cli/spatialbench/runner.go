package spatialbench

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spatialbench/spatialbench/internal/bench"
	"github.com/spatialbench/spatialbench/internal/config"
	"github.com/spatialbench/spatialbench/internal/engine"
	duckdbengine "github.com/spatialbench/spatialbench/internal/engine/duckdb"
	"github.com/spatialbench/spatialbench/internal/engine/remote"
	"github.com/spatialbench/spatialbench/internal/observability"
)

// ConnectFunc opens the engine handle and picks the matching dialect.
type ConnectFunc func(ctx context.Context, cfg config.Config) (engine.Handle, bench.Dialect, error)

type Options struct {
	Config  config.Config
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
	Connect ConnectFunc
}

const unsetFlag = -1

// Run parses arguments, selects the benchmark definition and drives the run
// protocol. Returns the process exit code: 0 on success, 1 on a run
// failure, 2 on usage errors.
func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	logger := defaults.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fs := flag.NewFlagSet("spatialbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { writeUsage(stderr) }

	var dataPrefix string
	fs.StringVar(&dataPrefix, "data-prefix", defaults.Config.Benchmark.DataPrefix, "root directory containing per-role dataset subdirectories")
	fs.StringVar(&dataPrefix, "d", defaults.Config.Benchmark.DataPrefix, "shorthand for -data-prefix")
	repeat := fs.Int("repeat", unsetFlag, "number of timed iterations (default per query)")
	fs.IntVar(repeat, "r", unsetFlag, "shorthand for -repeat")
	partitions := fs.Int("partitions", unsetFlag, "target partition count override")
	fs.IntVar(partitions, "p", unsetFlag, "shorthand for -partitions")
	zoneLimit := fs.Int("zone-limit", unsetFlag, "row cap for the zone view")
	tripLimit := fs.Int("trip-limit", unsetFlag, "row cap for the trip view")
	buildingLimit := fs.Int("building-limit", unsetFlag, "row cap for the building view")
	topN := fs.Int("top-n", unsetFlag, "ranked sub-selection cutoff (Q4, default 1000)")
	engineKind := fs.String("engine", defaults.Config.Engine.Kind, "engine backend: datafusion or duckdb")
	dsn := fs.String("dsn", defaults.Config.Engine.DSN, "engine connection string (datafusion backend)")
	preview := fs.Int("preview", unsetFlag, "result preview row count (default per query)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}
	if fs.NArg() > 2 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n\n", strings.Join(fs.Args()[2:], " "))
		writeUsage(stderr)
		return 2
	}

	def, err := bench.Lookup(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		writeUsage(stderr)
		return 2
	}

	mode := bench.ModeGPU
	if fs.NArg() == 2 {
		mode, err = bench.ParseMode(fs.Arg(1))
		if err != nil {
			fmt.Fprintf(stderr, "%v\n\n", err)
			writeUsage(stderr)
			return 2
		}
	}

	opts, err := buildOptions(def, dataPrefix, mode, *repeat, *partitions, *preview, map[bench.Role]int{
		bench.RoleZone:     *zoneLimit,
		bench.RoleTrip:     *tripLimit,
		bench.RoleBuilding: *buildingLimit,
	}, *topN)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	cfg := defaults.Config
	cfg.Engine.Kind = strings.TrimSpace(*engineKind)
	cfg.Engine.DSN = strings.TrimSpace(*dsn)

	connect := defaults.Connect
	if connect == nil {
		connect = defaultConnect
	}
	handle, dialect, err := connect(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "connect engine: %v\n", err)
		return 1
	}
	defer func() { _ = handle.Close() }()

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		shutdown := observability.StartMetricsServer(logger, addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	runner := bench.Runner{Handle: handle, Dialect: dialect, Logger: logger, Out: stdout}
	if _, err := runner.Run(ctx, def, opts); err != nil {
		fmt.Fprintf(stderr, "benchmark failed: %v\n", err)
		return 1
	}
	return 0
}

func buildOptions(def bench.Definition, dataPrefix string, mode bench.Mode, repeat, partitions, preview int, limits map[bench.Role]int, topN int) (bench.Options, error) {
	opts := bench.Options{
		DataPrefix: strings.TrimSpace(dataPrefix),
		Mode:       mode,
		Repeat:     def.DefaultRepeat,
	}
	if repeat != unsetFlag {
		opts.Repeat = repeat
	}
	if partitions != unsetFlag {
		opts.TargetPartitions = partitions
	}
	if preview != unsetFlag {
		if preview < 0 {
			return bench.Options{}, fmt.Errorf("preview must be >= 0, got %d", preview)
		}
		opts.PreviewRows = preview
	}

	for role, limit := range limits {
		if limit == unsetFlag {
			continue
		}
		if limit < 1 {
			return bench.Options{}, fmt.Errorf("%s limit must be a positive integer, got %d", role, limit)
		}
		if opts.RowLimits == nil {
			opts.RowLimits = map[bench.Role]int{}
		}
		opts.RowLimits[role] = limit
	}

	if topN != unsetFlag {
		if topN < 1 {
			return bench.Options{}, fmt.Errorf("top-n must be a positive integer, got %d", topN)
		}
		opts.Params = map[string]int{"top_n": topN}
	}

	if err := opts.Validate(def); err != nil {
		return bench.Options{}, err
	}
	return opts, nil
}

func defaultConnect(ctx context.Context, cfg config.Config) (engine.Handle, bench.Dialect, error) {
	switch cfg.Engine.Kind {
	case "duckdb":
		handle, err := duckdbengine.Open(ctx)
		if err != nil {
			return nil, nil, err
		}
		return handle, bench.DuckDBDialect{}, nil
	case "datafusion", "":
		handle, err := remote.Open(ctx, remote.Config{
			DSN:             cfg.Engine.DSN,
			ConnMaxIdleTime: cfg.Engine.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Engine.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return handle, bench.DataFusionDialect{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q (expected datafusion or duckdb)", cfg.Engine.Kind)
	}
}

func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: spatialbench [flags] <query> [mode]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "queries:")
	for _, def := range bench.Definitions() {
		fmt.Fprintf(w, "  %-4s %s\n", strings.ToLower(def.ID), def.Description)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "mode is gpu or cpu (default gpu)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "flags:")
	fmt.Fprintln(w, "  -d, -data-prefix    dataset root containing zone/, trip/, building/")
	fmt.Fprintln(w, "  -r, -repeat         timed iterations (default per query)")
	fmt.Fprintln(w, "  -p, -partitions     target partition count override")
	fmt.Fprintln(w, "  -zone-limit         row cap for the zone view")
	fmt.Fprintln(w, "  -trip-limit         row cap for the trip view")
	fmt.Fprintln(w, "  -building-limit     row cap for the building view")
	fmt.Fprintln(w, "  -top-n              ranked cutoff for q4 (default 1000)")
	fmt.Fprintln(w, "  -engine             datafusion or duckdb")
	fmt.Fprintln(w, "  -dsn                engine connection string")
	fmt.Fprintln(w, "  -preview            result preview rows (default per query)")
}
