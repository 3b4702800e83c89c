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
		fmt.Fprintf(os.Stderr, "spatialbench-datagen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	defaults := dataset.DefaultSpec()

	flags := flag.NewFlagSet("spatialbench-datagen", flag.ContinueOnError)
	out := flags.String("out", "data", "output directory for the generated dataset")
	zones := flags.Int("zones", defaults.Zones, "number of zone polygons")
	buildings := flags.Int("buildings", defaults.Buildings, "number of building polygons")
	trips := flags.Int("trips", defaults.Trips, "number of trip rows")
	duplicateEvery := flags.Int("duplicate-every", defaults.DuplicateEvery, "make every Nth building an exact copy of its predecessor (0 disables)")
	outsideRatio := flags.Float64("outside-ratio", defaults.OutsideRatio, "fraction of trip endpoints placed outside every zone")
	seed := flags.Int64("seed", defaults.Seed, "random seed")
	upload := flags.String("upload", "", "after generating, upload the dataset to the object store under this prefix")
	if err := flags.Parse(args); err != nil {
		return err
	}

	spec := dataset.Spec{
		Zones:          *zones,
		Buildings:      *buildings,
		Trips:          *trips,
		DuplicateEvery: *duplicateEvery,
		OutsideRatio:   *outsideRatio,
		Seed:           *seed,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	counts, err := dataset.Write(*out, dataset.NewGenerator(spec))
	if err != nil {
		return err
	}
	fmt.Printf("generated %d zones, %d buildings, %d trips under %s\n", counts.Zones, counts.Buildings, counts.Trips, *out)

	if *upload == "" {
		return nil
	}

	cfg, err := config.LoadFromEnv("spatialbench-datagen")
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

	uploaded, err := dataset.Publish(context.Background(), store, *out, *upload, logger)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %d files to %s\n", uploaded, *upload)
	return nil
}
