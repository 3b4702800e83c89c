package dataset

// Parquet row shapes for the three table roles. Column names are the fixed
// schema the query catalog projects; timestamps are unix seconds so that
// t_dropofftime - t_pickuptime is a plain numeric duration.

type ZoneRow struct {
	Zonekey  int64  `parquet:"z_zonekey"`
	Name     string `parquet:"z_name"`
	Boundary []byte `parquet:"z_boundary"`
}

type BuildingRow struct {
	Buildingkey int64  `parquet:"b_buildingkey"`
	Name        string `parquet:"b_name"`
	Boundary    []byte `parquet:"b_boundary"`
}

type TripRow struct {
	Tripkey     int64   `parquet:"t_tripkey"`
	Pickuptime  int64   `parquet:"t_pickuptime"`
	Dropofftime int64   `parquet:"t_dropofftime"`
	Distance    float64 `parquet:"t_distance"`
	Tip         float64 `parquet:"t_tip"`
	Pickuploc   []byte  `parquet:"t_pickuploc"`
	Dropoffloc  []byte  `parquet:"t_dropoffloc"`
}
