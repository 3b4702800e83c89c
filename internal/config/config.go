package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Service       ServiceConfig
	Engine        EngineConfig
	Benchmark     BenchmarkConfig
	ObjectStore   ObjectStoreConfig
	Observability ObservabilityConfig
}

type ServiceConfig struct {
	Name string
}

type EngineConfig struct {
	// Kind selects the backend: "datafusion" (remote, GPU-capable) or
	// "duckdb" (embedded reference engine).
	Kind            string
	DSN             string
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

type BenchmarkConfig struct {
	DataPrefix  string
	PreviewRows int
}

type ObjectStoreConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Prefix          string
}

type ObservabilityConfig struct {
	LogLevel       slog.Level
	LogJSON        bool
	MetricsAddress string
}

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := defaultConfig(serviceName)

	if err := applyString(lookup, "SPATIALBENCH_ENGINE", &cfg.Engine.Kind); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_ENGINE_DSN", &cfg.Engine.DSN); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "SPATIALBENCH_ENGINE_CONN_MAX_IDLE_TIME", &cfg.Engine.ConnMaxIdleTime); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "SPATIALBENCH_ENGINE_CONN_MAX_LIFETIME", &cfg.Engine.ConnMaxLifetime); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_DATA_PREFIX", &cfg.Benchmark.DataPrefix); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "SPATIALBENCH_PREVIEW_ROWS", &cfg.Benchmark.PreviewRows); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_ENDPOINT", &cfg.ObjectStore.Endpoint); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_REGION", &cfg.ObjectStore.Region); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_BUCKET", &cfg.ObjectStore.Bucket); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_ACCESS_KEY_ID", &cfg.ObjectStore.AccessKeyID); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_SECRET_ACCESS_KEY", &cfg.ObjectStore.SecretAccessKey); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "SPATIALBENCH_S3_USE_SSL", &cfg.ObjectStore.UseSSL); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_S3_PREFIX", &cfg.ObjectStore.Prefix); err != nil {
		return Config{}, err
	}
	if err := applyLogLevel(lookup, "SPATIALBENCH_LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "SPATIALBENCH_LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SPATIALBENCH_METRICS_ADDR", &cfg.Observability.MetricsAddress); err != nil {
		return Config{}, err
	}

	switch cfg.Engine.Kind {
	case "datafusion", "duckdb":
	default:
		return Config{}, fmt.Errorf("invalid SPATIALBENCH_ENGINE %q (expected datafusion or duckdb)", cfg.Engine.Kind)
	}
	if cfg.Benchmark.PreviewRows < 0 {
		return Config{}, fmt.Errorf("SPATIALBENCH_PREVIEW_ROWS must be >= 0")
	}

	return cfg, nil
}

func defaultConfig(serviceName string) Config {
	return Config{
		Service: ServiceConfig{Name: serviceName},
		Engine: EngineConfig{
			Kind: "datafusion",
			DSN:  "",
		},
		Benchmark: BenchmarkConfig{
			DataPrefix:  "",
			PreviewRows: 0,
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint: "localhost:9000",
			Region:   "us-east-1",
			Bucket:   "spatialbench",
			UseSSL:   false,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelInfo,
			LogJSON:  false,
		},
	}
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyDuration(lookup LookupFunc, key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyLogLevel(lookup LookupFunc, key string, dst *slog.Level) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
