package dataset

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// SquareWKB encodes an axis-aligned square polygon as little-endian WKB,
// the raw form the engine's ST_GeomFromWKB parses out of the boundary
// columns.
func SquareWKB(minX, minY, side float64) ([]byte, error) {
	if side <= 0 {
		return nil, fmt.Errorf("square side must be positive, got %v", side)
	}
	ring := []geom.Coord{
		{minX, minY},
		{minX + side, minY},
		{minX + side, minY + side},
		{minX, minY + side},
		{minX, minY},
	}
	polygon := geom.NewPolygon(geom.XY)
	if _, err := polygon.SetCoords([][]geom.Coord{ring}); err != nil {
		return nil, fmt.Errorf("set polygon coords: %w", err)
	}
	return wkb.Marshal(polygon, wkb.NDR)
}

func PointWKB(x, y float64) ([]byte, error) {
	point := geom.NewPoint(geom.XY)
	if _, err := point.SetCoords(geom.Coord{x, y}); err != nil {
		return nil, fmt.Errorf("set point coords: %w", err)
	}
	return wkb.Marshal(point, wkb.NDR)
}
