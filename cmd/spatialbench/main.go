package main

import (
	"context"
	"log/slog"
	"os"

	clirunner "github.com/spatialbench/spatialbench/internal/cli/spatialbench"
	"github.com/spatialbench/spatialbench/internal/config"
	"github.com/spatialbench/spatialbench/internal/observability"
)

func main() {
	cfg, err := config.LoadFromEnv("spatialbench")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stderr)
	code := clirunner.Run(context.Background(), os.Args[1:], clirunner.Options{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	os.Exit(code)
}
