package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Spec sizes a generated benchmark dataset. Zones tile a square grid of
// unit cells; buildings are small squares inside the grid with every
// DuplicateEvery-th one an exact copy of its predecessor (identical
// footprints for overlap detection); trips are pickup/dropoff point pairs,
// a fraction of which fall outside every zone.
type Spec struct {
	Zones          int
	Buildings      int
	Trips          int
	DuplicateEvery int
	OutsideRatio   float64
	Seed           int64
}

func DefaultSpec() Spec {
	return Spec{
		Zones:          25,
		Buildings:      200,
		Trips:          10000,
		DuplicateEvery: 10,
		OutsideRatio:   0.05,
		Seed:           1,
	}
}

func (s Spec) Validate() error {
	if s.Zones < 1 || s.Buildings < 1 || s.Trips < 1 {
		return fmt.Errorf("zones, buildings and trips must all be positive")
	}
	if s.OutsideRatio < 0 || s.OutsideRatio >= 1 {
		return fmt.Errorf("outside ratio must be in [0, 1), got %v", s.OutsideRatio)
	}
	return nil
}

type Generator struct {
	rnd  *rand.Rand
	spec Spec
	grid int
	base int64
}

func NewGenerator(spec Spec) *Generator {
	grid := int(math.Ceil(math.Sqrt(float64(spec.Zones))))
	if grid < 1 {
		grid = 1
	}
	return &Generator{
		rnd:  rand.New(rand.NewSource(spec.Seed)),
		spec: spec,
		grid: grid,
		base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}
}

func (g *Generator) Zones() ([]ZoneRow, error) {
	rows := make([]ZoneRow, 0, g.spec.Zones)
	for i := 0; i < g.spec.Zones; i++ {
		minX := float64(i % g.grid)
		minY := float64(i / g.grid)
		boundary, err := SquareWKB(minX, minY, 1)
		if err != nil {
			return nil, fmt.Errorf("zone %d boundary: %w", i+1, err)
		}
		rows = append(rows, ZoneRow{
			Zonekey:  int64(i + 1),
			Name:     fmt.Sprintf("Zone %03d", i+1),
			Boundary: boundary,
		})
	}
	return rows, nil
}

func (g *Generator) Buildings() ([]BuildingRow, error) {
	rows := make([]BuildingRow, 0, g.spec.Buildings)
	var prevMinX, prevMinY, prevSide float64
	for i := 0; i < g.spec.Buildings; i++ {
		side := 0.002 + g.rnd.Float64()*0.008
		minX := g.rnd.Float64() * (float64(g.grid) - side)
		minY := g.rnd.Float64() * (float64(g.grid) - side)
		if g.spec.DuplicateEvery > 0 && i > 0 && i%g.spec.DuplicateEvery == 0 {
			minX, minY, side = prevMinX, prevMinY, prevSide
		}
		boundary, err := SquareWKB(minX, minY, side)
		if err != nil {
			return nil, fmt.Errorf("building %d boundary: %w", i+1, err)
		}
		rows = append(rows, BuildingRow{
			Buildingkey: int64(i + 1),
			Name:        fmt.Sprintf("Building %05d", i+1),
			Boundary:    boundary,
		})
		prevMinX, prevMinY, prevSide = minX, minY, side
	}
	return rows, nil
}

func (g *Generator) Trips() ([]TripRow, error) {
	rows := make([]TripRow, 0, g.spec.Trips)
	for i := 0; i < g.spec.Trips; i++ {
		pickupX, pickupY := g.pickPoint()
		dropoffX, dropoffY := g.pickPoint()

		pickuploc, err := PointWKB(pickupX, pickupY)
		if err != nil {
			return nil, fmt.Errorf("trip %d pickup: %w", i+1, err)
		}
		dropoffloc, err := PointWKB(dropoffX, dropoffY)
		if err != nil {
			return nil, fmt.Errorf("trip %d dropoff: %w", i+1, err)
		}

		pickuptime := g.base + int64(g.rnd.Intn(30*24*3600))
		duration := int64(60 + g.rnd.Intn(3540))
		rows = append(rows, TripRow{
			Tripkey:     int64(i + 1),
			Pickuptime:  pickuptime,
			Dropofftime: pickuptime + duration,
			Distance:    round2(0.1 + g.rnd.Float64()*25),
			// tips quantized to quarters so ranking ties actually occur
			Tip:         math.Floor(g.rnd.Float64()*80) / 4,
			Pickuploc:   pickuploc,
			Dropoffloc:  dropoffloc,
		})
	}
	return rows, nil
}

// pickPoint places a point inside the zone grid, or well outside it for the
// configured fraction of trips.
func (g *Generator) pickPoint() (float64, float64) {
	if g.rnd.Float64() < g.spec.OutsideRatio {
		return float64(g.grid) + 1 + g.rnd.Float64(), float64(g.grid) + 1 + g.rnd.Float64()
	}
	return g.rnd.Float64() * float64(g.grid), g.rnd.Float64() * float64(g.grid)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
