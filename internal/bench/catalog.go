package bench

import (
	"fmt"
	"sort"
	"strings"
)

// GeomColumn names a raw WKB column and the alias its parsed geometry takes
// in the view.
type GeomColumn struct {
	Source string
	Alias  string
}

// ViewSpec describes the geometry view built over one role's external table.
type ViewSpec struct {
	Role    Role
	Columns []string
	Geoms   []GeomColumn
}

// Definition is one entry of the query catalog. Everything that differs
// between the six benchmarks lives here; the run protocol is shared.
type Definition struct {
	ID            string
	Description   string
	Views         []ViewSpec
	DefaultRepeat int
	PreviewRows   int
	ParamDefaults map[string]int
	ExecSQL       func(Options) string
}

// Roles enumerates the table roles the definition needs, in registration
// order.
func (d Definition) Roles() []Role {
	roles := make([]Role, 0, len(d.Views))
	for _, view := range d.Views {
		roles = append(roles, view.Role)
	}
	return roles
}

const topNParam = "top_n"

var catalog = []Definition{
	{
		ID:          "Q2",
		Description: "Count trips in county using spatial join",
		Views: []ViewSpec{
			{Role: RoleZone, Columns: []string{"z_name"}, Geoms: []GeomColumn{{Source: "z_boundary", Alias: "geom"}}},
			{Role: RoleTrip, Geoms: []GeomColumn{{Source: "t_pickuploc", Alias: "geom"}}},
		},
		DefaultRepeat: 1,
		PreviewRows:   3,
		ExecSQL: func(Options) string {
			return `SELECT COUNT(*) AS trip_count_in_county
FROM zone_geom z
JOIN trip_geom t
ON ST_Intersects(z.geom, t.geom)`
		},
	},
	{
		ID:          "Q4",
		Description: "Zone distribution of top trips by tip amount",
		Views: []ViewSpec{
			{Role: RoleZone, Columns: []string{"z_zonekey", "z_name"}, Geoms: []GeomColumn{{Source: "z_boundary", Alias: "geom"}}},
			{Role: RoleTrip, Columns: []string{"t_tripkey", "t_tip"}, Geoms: []GeomColumn{{Source: "t_pickuploc", Alias: "geom"}}},
		},
		DefaultRepeat: 5,
		PreviewRows:   20,
		ParamDefaults: map[string]int{topNParam: 1000},
		ExecSQL: func(opts Options) string {
			return fmt.Sprintf(`SELECT
    z.z_zonekey,
    z.z_name,
    COUNT(*) AS trip_count
FROM
    zone_geom z
    JOIN (
        SELECT t.geom
        FROM trip_geom t
        ORDER BY t.t_tip DESC, t.t_tripkey ASC
        LIMIT %d
    ) top_trips
    ON ST_Within(top_trips.geom, z.geom)
GROUP BY z.z_zonekey, z.z_name
ORDER BY trip_count DESC, z.z_zonekey ASC`, opts.Param(topNParam, 1000))
		},
	},
	{
		ID:          "Q8",
		Description: "Count pickups within each building",
		Views: []ViewSpec{
			{Role: RoleBuilding, Columns: []string{"b_buildingkey", "b_name"}, Geoms: []GeomColumn{{Source: "b_boundary", Alias: "geom"}}},
			{Role: RoleTrip, Geoms: []GeomColumn{{Source: "t_pickuploc", Alias: "geom"}}},
		},
		DefaultRepeat: 5,
		PreviewRows:   20,
		ExecSQL: func(Options) string {
			return `SELECT b.b_buildingkey, b.b_name, COUNT(*) AS nearby_pickup_count
FROM trip_geom t
JOIN building_geom b
ON ST_Within(t.geom, b.geom)
GROUP BY b.b_buildingkey, b.b_name
ORDER BY nearby_pickup_count DESC, b.b_buildingkey ASC`
		},
	},
	{
		ID:          "Q9",
		Description: "Building conflation using IoU to detect overlapping buildings",
		Views: []ViewSpec{
			{Role: RoleBuilding, Columns: []string{"b_buildingkey"}, Geoms: []GeomColumn{{Source: "b_boundary", Alias: "geom"}}},
		},
		DefaultRepeat: 5,
		PreviewRows:   20,
		ExecSQL: func(Options) string {
			return `WITH b1 AS (
    SELECT b_buildingkey AS id, geom
    FROM building_geom
), b2 AS (
    SELECT b_buildingkey AS id, geom
    FROM building_geom
), pairs AS (
    SELECT
        b1.id AS building_1,
        b2.id AS building_2,
        ST_Area(b1.geom) AS area1,
        ST_Area(b2.geom) AS area2,
        ST_Area(ST_Intersection(b1.geom, b2.geom)) AS overlap_area
    FROM b1
    JOIN b2 ON b1.id < b2.id AND ST_Intersects(b1.geom, b2.geom)
)
SELECT
    building_1,
    building_2,
    area1,
    area2,
    overlap_area,
    CASE
        WHEN (area1 + area2 - overlap_area) = 0 THEN 1.0
        ELSE overlap_area / (area1 + area2 - overlap_area)
    END AS iou
FROM pairs
ORDER BY iou DESC, building_1 ASC, building_2 ASC`
		},
	},
	{
		ID:          "Q10",
		Description: "Zone statistics for trips starting within each zone",
		Views: []ViewSpec{
			{Role: RoleZone, Columns: []string{"z_zonekey", "z_name"}, Geoms: []GeomColumn{{Source: "z_boundary", Alias: "geom"}}},
			{Role: RoleTrip, Columns: []string{"t_tripkey", "t_pickuptime", "t_dropofftime", "t_distance"}, Geoms: []GeomColumn{{Source: "t_pickuploc", Alias: "geom"}}},
		},
		DefaultRepeat: 1,
		PreviewRows:   20,
		ExecSQL: func(Options) string {
			return `SELECT
    z.z_zonekey,
    z.z_name AS pickup_zone,
    AVG(t.t_dropofftime - t.t_pickuptime) AS avg_duration,
    AVG(t.t_distance) AS avg_distance,
    COUNT(t.t_tripkey) AS num_trips
FROM
    zone_geom z
    LEFT JOIN trip_geom t
    ON ST_Within(t.geom, z.geom)
GROUP BY z.z_zonekey, z.z_name
ORDER BY avg_duration DESC NULLS LAST, z.z_zonekey ASC`
		},
	},
	{
		ID:          "Q11",
		Description: "Count trips crossing between different zones",
		Views: []ViewSpec{
			{Role: RoleZone, Columns: []string{"z_zonekey"}, Geoms: []GeomColumn{{Source: "z_boundary", Alias: "geom"}}},
			{Role: RoleTrip, Geoms: []GeomColumn{
				{Source: "t_pickuploc", Alias: "pickup_geom"},
				{Source: "t_dropoffloc", Alias: "dropoff_geom"},
			}},
		},
		DefaultRepeat: 1,
		PreviewRows:   20,
		ExecSQL: func(Options) string {
			return `SELECT COUNT(*) AS cross_zone_trip_count
FROM
    trip_geom t
    JOIN zone_geom pickup_zone
        ON ST_Within(t.pickup_geom, pickup_zone.geom)
    JOIN zone_geom dropoff_zone
        ON ST_Within(t.dropoff_geom, dropoff_zone.geom)
WHERE pickup_zone.z_zonekey != dropoff_zone.z_zonekey`
		},
	},
}

// Definitions returns the catalog ordered by ID.
func Definitions() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup finds a definition by its case-insensitive ID.
func Lookup(id string) (Definition, error) {
	normalized := strings.ToUpper(strings.TrimSpace(id))
	for _, def := range catalog {
		if def.ID == normalized {
			return def, nil
		}
	}
	ids := make([]string, 0, len(catalog))
	for _, def := range catalog {
		ids = append(ids, def.ID)
	}
	return Definition{}, fmt.Errorf("unknown query %q (available: %s)", id, strings.Join(ids, ", "))
}
