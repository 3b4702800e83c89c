package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestWriteLaysOutRoleDirectories(t *testing.T) {
	dir := t.TempDir()
	spec := Spec{Zones: 4, Buildings: 12, Trips: 50, DuplicateEvery: 4, Seed: 11}

	counts, err := Write(dir, NewGenerator(spec))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if counts.Zones != 4 || counts.Buildings != 12 || counts.Trips != 50 {
		t.Fatalf("Write() counts = %+v", counts)
	}

	for _, role := range []string{"zone", "building", "trip"} {
		path := filepath.Join(dir, role, "part-0.parquet")
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing %s file: %v", role, err)
		}
	}
}

func TestWrittenZonesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(Spec{Zones: 3, Buildings: 1, Trips: 1, Seed: 5})

	zones, err := g.Zones()
	if err != nil {
		t.Fatalf("Zones() error = %v", err)
	}
	if err := WriteZones(dir, zones); err != nil {
		t.Fatalf("WriteZones() error = %v", err)
	}

	read, err := parquet.ReadFile[ZoneRow](filepath.Join(dir, "zone", "part-0.parquet"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(read) != len(zones) {
		t.Fatalf("read %d zones, want %d", len(read), len(zones))
	}
	for i := range zones {
		if read[i].Zonekey != zones[i].Zonekey || read[i].Name != zones[i].Name {
			t.Fatalf("zone %d mismatch: got %+v, want %+v", i, read[i], zones[i])
		}
		if len(read[i].Boundary) == 0 {
			t.Fatalf("zone %d boundary lost in round trip", i)
		}
	}
}
