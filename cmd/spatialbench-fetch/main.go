package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spatialbench/spatialbench/internal/config"
	"github.com/spatialbench/spatialbench/internal/dataset"
	"github.com/spatialbench/spatialbench/internal/observability"
	"github.com/spatialbench/spatialbench/internal/storage/s3"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "spatialbench-fetch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("spatialbench-fetch", flag.ContinueOnError)
	prefix := flags.String("prefix", "", "object store prefix to mirror (required)")
	dir := flags.String("dir", "data", "local directory to mirror into")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *prefix == "" {
		return fmt.Errorf("-prefix is required")
	}

	cfg, err := config.LoadFromEnv("spatialbench-fetch")
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg, os.Stderr)

	store, err := s3.New(s3.Config{
		Endpoint:        cfg.ObjectStore.Endpoint,
		Region:          cfg.ObjectStore.Region,
		Bucket:          cfg.ObjectStore.Bucket,
		AccessKeyID:     cfg.ObjectStore.AccessKeyID,
		SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		UseSSL:          cfg.ObjectStore.UseSSL,
		Prefix:          cfg.ObjectStore.Prefix,
	})
	if err != nil {
		return err
	}

	fetched, err := dataset.Fetch(context.Background(), store, *prefix, *dir, logger)
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d files into %s\n", fetched, *dir)
	return nil
}
