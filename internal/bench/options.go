package bench

import (
	"fmt"
	"strings"
)

// Role identifies one of the benchmark dataset tables. The on-disk layout is
// {data_prefix}/{role}/ holding parquet files with the fixed per-role schema.
type Role string

const (
	RoleZone     Role = "zone"
	RoleTrip     Role = "trip"
	RoleBuilding Role = "building"
)

func (r Role) TableName() string { return string(r) + "_table" }
func (r Role) ViewName() string  { return string(r) + "_geom" }

type Mode string

const (
	ModeGPU Mode = "gpu"
	ModeCPU Mode = "cpu"
)

func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gpu":
		return ModeGPU, nil
	case "cpu":
		return ModeCPU, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected gpu or cpu)", raw)
	}
}

// Options holds everything that parameterizes one benchmark invocation. It
// is built once from the CLI arguments and never mutated afterwards.
type Options struct {
	DataPrefix       string
	Mode             Mode
	Repeat           int
	TargetPartitions int          // 0 = leave the engine default
	RowLimits        map[Role]int // only validated positive limits; absent = unlimited
	Params           map[string]int
	PreviewRows      int // 0 = definition default
}

// Validate checks the options against the selected definition. Limits and
// params are interpolated into SQL text, so nothing non-positive may pass.
func (o Options) Validate(def Definition) error {
	if strings.TrimSpace(o.DataPrefix) == "" {
		return fmt.Errorf("data prefix is required")
	}
	if o.Mode != ModeGPU && o.Mode != ModeCPU {
		return fmt.Errorf("invalid mode %q", o.Mode)
	}
	if o.Repeat < 1 {
		return fmt.Errorf("repeat must be >= 1, got %d", o.Repeat)
	}
	if o.TargetPartitions < 0 {
		return fmt.Errorf("target partitions must be positive, got %d", o.TargetPartitions)
	}
	for role, limit := range o.RowLimits {
		if limit < 1 {
			return fmt.Errorf("%s limit must be a positive integer, got %d", role, limit)
		}
	}
	for name, value := range o.Params {
		if value < 1 {
			return fmt.Errorf("param %s must be a positive integer, got %d", name, value)
		}
	}
	if o.PreviewRows < 0 {
		return fmt.Errorf("preview rows must be >= 0, got %d", o.PreviewRows)
	}
	_ = def
	return nil
}

// Limit reports the row limit for a role. The second return is false when no
// limit was supplied, which must translate to an unlimited view.
func (o Options) Limit(role Role) (int, bool) {
	limit, ok := o.RowLimits[role]
	if !ok || limit < 1 {
		return 0, false
	}
	return limit, true
}

// Param returns a named query parameter, falling back to the definition
// default when the invocation did not override it.
func (o Options) Param(name string, fallback int) int {
	if value, ok := o.Params[name]; ok && value > 0 {
		return value
	}
	return fallback
}
