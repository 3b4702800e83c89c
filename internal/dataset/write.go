package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// Counts reports what a generation run produced per role.
type Counts struct {
	Zones     int
	Buildings int
	Trips     int
}

// Write generates a full dataset under dir using the layout the harness
// consumes: {dir}/{role}/part-0.parquet.
func Write(dir string, g *Generator) (Counts, error) {
	zones, err := g.Zones()
	if err != nil {
		return Counts{}, err
	}
	buildings, err := g.Buildings()
	if err != nil {
		return Counts{}, err
	}
	trips, err := g.Trips()
	if err != nil {
		return Counts{}, err
	}

	if err := WriteZones(dir, zones); err != nil {
		return Counts{}, err
	}
	if err := WriteBuildings(dir, buildings); err != nil {
		return Counts{}, err
	}
	if err := WriteTrips(dir, trips); err != nil {
		return Counts{}, err
	}
	return Counts{Zones: len(zones), Buildings: len(buildings), Trips: len(trips)}, nil
}

func WriteZones(dir string, rows []ZoneRow) error {
	return writeParquet(filepath.Join(dir, "zone", "part-0.parquet"), rows)
}

func WriteBuildings(dir string, rows []BuildingRow) error {
	return writeParquet(filepath.Join(dir, "building", "part-0.parquet"), rows)
}

func WriteTrips(dir string, rows []TripRow) error {
	return writeParquet(filepath.Join(dir, "trip", "part-0.parquet"), rows)
}

func writeParquet[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file %q: %w", path, err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("write parquet rows to %q: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("close parquet writer for %q: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close parquet file %q: %w", path, err)
	}
	return nil
}
