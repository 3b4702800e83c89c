//go:build integration

package bench

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spatialbench/spatialbench/internal/dataset"
	"github.com/spatialbench/spatialbench/internal/engine"
	duckdbengine "github.com/spatialbench/spatialbench/internal/engine/duckdb"
)

func mustWKBSquare(t *testing.T, minX, minY, side float64) []byte {
	t.Helper()
	data, err := dataset.SquareWKB(minX, minY, side)
	if err != nil {
		t.Fatalf("SquareWKB() error = %v", err)
	}
	return data
}

func mustWKBPoint(t *testing.T, x, y float64) []byte {
	t.Helper()
	data, err := dataset.PointWKB(x, y)
	if err != nil {
		t.Fatalf("PointWKB() error = %v", err)
	}
	return data
}

func openDuckDB(t *testing.T) engine.Handle {
	t.Helper()
	handle, err := duckdbengine.Open(context.Background())
	if err != nil {
		t.Fatalf("duckdb.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })
	return handle
}

func runDefinition(t *testing.T, handle engine.Handle, id string, opts Options) RunResult {
	t.Helper()
	def, err := Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%s) error = %v", id, err)
	}
	runner := Runner{Handle: handle, Dialect: DuckDBDialect{}, Logger: discardLogger()}
	result, err := runner.Run(context.Background(), def, opts)
	if err != nil {
		t.Fatalf("Run(%s) error = %v", id, err)
	}
	return result
}

func TestQ10PreservesZonesWithZeroTrips(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.WriteZones(dir, []dataset.ZoneRow{
		{Zonekey: 1, Name: "Zone A", Boundary: mustWKBSquare(t, 0, 0, 1)},
		{Zonekey: 2, Name: "Zone B", Boundary: mustWKBSquare(t, 10, 10, 1)},
	}); err != nil {
		t.Fatalf("WriteZones() error = %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	if err := dataset.WriteTrips(dir, []dataset.TripRow{
		{Tripkey: 1, Pickuptime: base, Dropofftime: base + 600, Distance: 2, Tip: 1, Pickuploc: mustWKBPoint(t, 0.2, 0.2), Dropoffloc: mustWKBPoint(t, 0.8, 0.8)},
		{Tripkey: 2, Pickuptime: base, Dropofftime: base + 1200, Distance: 4, Tip: 2, Pickuploc: mustWKBPoint(t, 0.5, 0.5), Dropoffloc: mustWKBPoint(t, 0.6, 0.6)},
		{Tripkey: 3, Pickuptime: base, Dropofftime: base + 300, Distance: 1, Tip: 0, Pickuploc: mustWKBPoint(t, 50, 50), Dropoffloc: mustWKBPoint(t, 51, 51)},
	}); err != nil {
		t.Fatalf("WriteTrips() error = %v", err)
	}

	opts := Options{DataPrefix: dir, Mode: ModeCPU, Repeat: 1}
	result := runDefinition(t, openDuckDB(t), "Q10", opts)

	rows := result.LastResult.Rows
	if len(rows) != 2 {
		t.Fatalf("rows = %d, every zone must appear exactly once", len(rows))
	}
	// zone A first (non-null avg_duration), zone B last (nulls-last)
	if rows[0][0] != int64(1) {
		t.Fatalf("first row zone = %#v", rows[0][0])
	}
	if rows[0][4] != int64(2) {
		t.Fatalf("zone A num_trips = %#v, the outside trip must not count", rows[0][4])
	}
	if rows[0][2] == nil {
		t.Fatal("zone A avg_duration must be non-null")
	}
	if rows[1][0] != int64(2) {
		t.Fatalf("second row zone = %#v", rows[1][0])
	}
	if rows[1][2] != nil || rows[1][4] != int64(0) {
		t.Fatalf("zone B must have null averages and zero trips: %#v", rows[1])
	}
}

func TestQ9IdenticalFootprintsScoreExactlyOne(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.WriteBuildings(dir, []dataset.BuildingRow{
		{Buildingkey: 1, Name: "B1", Boundary: mustWKBSquare(t, 0, 0, 0.01)},
		{Buildingkey: 2, Name: "B2", Boundary: mustWKBSquare(t, 0, 0, 0.01)},
		{Buildingkey: 3, Name: "B3", Boundary: mustWKBSquare(t, 5, 5, 0.01)},
	}); err != nil {
		t.Fatalf("WriteBuildings() error = %v", err)
	}

	opts := Options{DataPrefix: dir, Mode: ModeCPU, Repeat: 1}
	result := runDefinition(t, openDuckDB(t), "Q9", opts)

	rows := result.LastResult.Rows
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the (1,2) pair", len(rows))
	}
	if rows[0][0] != int64(1) || rows[0][1] != int64(2) {
		t.Fatalf("pair = (%#v, %#v), self and symmetric pairs must be excluded", rows[0][0], rows[0][1])
	}
	iou, ok := rows[0][5].(float64)
	if !ok || iou != 1.0 {
		t.Fatalf("iou = %#v, identical footprints must score exactly 1.0", rows[0][5])
	}
}

func TestQ4TieBreaksByAscendingTripKey(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.WriteZones(dir, []dataset.ZoneRow{
		{Zonekey: 1, Name: "Zone A", Boundary: mustWKBSquare(t, 0, 0, 1)},
		{Zonekey: 2, Name: "Zone B", Boundary: mustWKBSquare(t, 2, 2, 1)},
	}); err != nil {
		t.Fatalf("WriteZones() error = %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	// identical tips; the smaller trip key must win the top-1 cutoff
	if err := dataset.WriteTrips(dir, []dataset.TripRow{
		{Tripkey: 2, Pickuptime: base, Dropofftime: base + 60, Distance: 1, Tip: 5, Pickuploc: mustWKBPoint(t, 2.5, 2.5), Dropoffloc: mustWKBPoint(t, 2.6, 2.6)},
		{Tripkey: 1, Pickuptime: base, Dropofftime: base + 60, Distance: 1, Tip: 5, Pickuploc: mustWKBPoint(t, 0.5, 0.5), Dropoffloc: mustWKBPoint(t, 0.6, 0.6)},
	}); err != nil {
		t.Fatalf("WriteTrips() error = %v", err)
	}

	opts := Options{
		DataPrefix: dir,
		Mode:       ModeCPU,
		Repeat:     1,
		Params:     map[string]int{"top_n": 1},
	}
	result := runDefinition(t, openDuckDB(t), "Q4", opts)

	rows := result.LastResult.Rows
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != int64(1) {
		t.Fatalf("winning zone = %#v, trip key 1 must win the tie", rows[0][0])
	}
}

func TestRowLimitAbsenceYieldsAllRows(t *testing.T) {
	dir := t.TempDir()
	gen := dataset.NewGenerator(dataset.Spec{Zones: 9, Buildings: 5, Trips: 20, DuplicateEvery: 0, Seed: 7})
	if _, err := dataset.Write(dir, gen); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	handle := openDuckDB(t)
	def, _ := Lookup("Q2")

	countViewRows := func(opts Options) int64 {
		if err := Bootstrap(context.Background(), handle, DuckDBDialect{}, discardLogger(), def, opts); err != nil {
			t.Fatalf("Bootstrap() error = %v", err)
		}
		result, err := handle.Query(context.Background(), "SELECT COUNT(*) FROM trip_geom")
		if err != nil {
			t.Fatalf("count query error = %v", err)
		}
		count, ok := result.Rows[0][0].(int64)
		if !ok {
			t.Fatalf("count = %#v", result.Rows[0][0])
		}
		return count
	}

	unlimited := countViewRows(Options{DataPrefix: dir, Mode: ModeCPU, Repeat: 1})
	limited := countViewRows(Options{DataPrefix: dir, Mode: ModeCPU, Repeat: 1, RowLimits: map[Role]int{RoleTrip: 5}})

	if unlimited != 20 {
		t.Fatalf("unlimited view rows = %d, absence of a limit must not mean zero", unlimited)
	}
	if limited != 5 {
		t.Fatalf("limited view rows = %d", limited)
	}
	if limited >= unlimited {
		t.Fatalf("limited (%d) must be fewer than unlimited (%d)", limited, unlimited)
	}
}

func TestQ11CountsOnlyCrossZoneTrips(t *testing.T) {
	dir := t.TempDir()
	if err := dataset.WriteZones(dir, []dataset.ZoneRow{
		{Zonekey: 1, Name: "Zone A", Boundary: mustWKBSquare(t, 0, 0, 1)},
		{Zonekey: 2, Name: "Zone B", Boundary: mustWKBSquare(t, 2, 2, 1)},
	}); err != nil {
		t.Fatalf("WriteZones() error = %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	if err := dataset.WriteTrips(dir, []dataset.TripRow{
		// crosses A -> B
		{Tripkey: 1, Pickuptime: base, Dropofftime: base + 60, Distance: 3, Tip: 1, Pickuploc: mustWKBPoint(t, 0.5, 0.5), Dropoffloc: mustWKBPoint(t, 2.5, 2.5)},
		// stays within A
		{Tripkey: 2, Pickuptime: base, Dropofftime: base + 60, Distance: 1, Tip: 1, Pickuploc: mustWKBPoint(t, 0.2, 0.2), Dropoffloc: mustWKBPoint(t, 0.8, 0.8)},
	}); err != nil {
		t.Fatalf("WriteTrips() error = %v", err)
	}

	opts := Options{DataPrefix: dir, Mode: ModeCPU, Repeat: 1}
	result := runDefinition(t, openDuckDB(t), "Q11", opts)

	if !strings.EqualFold(result.LastResult.Columns[0], "cross_zone_trip_count") {
		t.Fatalf("columns = %v", result.LastResult.Columns)
	}
	if result.LastResult.Rows[0][0] != int64(1) {
		t.Fatalf("cross zone count = %#v", result.LastResult.Rows[0][0])
	}
}
