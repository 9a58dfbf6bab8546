package trip

// SchemaColumn describes one destination column with a dialect-neutral kind.
// Storage backends map kinds onto their SQL types when rendering DDL.
//
// Kinds: "id" (auto-assigned surrogate key), "datetime", "double", "int",
// "tinyint", "text".
type SchemaColumn struct {
	Name    string
	Kind    string
	NotNull bool
}

// TableName is the default destination table.
const TableName = "trips"

// Schema returns the full destination column set in table order. The id
// column is auto-assigned by the database and never bound by inserts.
func Schema() []SchemaColumn {
	return []SchemaColumn{
		{Name: "id", Kind: "id", NotNull: true},
		{Name: "vendor_code", Kind: "text"},
		{Name: "pickup_datetime", Kind: "datetime", NotNull: true},
		{Name: "dropoff_datetime", Kind: "datetime", NotNull: true},
		{Name: "pickup_lat", Kind: "double"},
		{Name: "pickup_lon", Kind: "double"},
		{Name: "dropoff_lat", Kind: "double"},
		{Name: "dropoff_lon", Kind: "double"},
		{Name: "passenger_count", Kind: "int"},
		{Name: "trip_distance_km", Kind: "double"},
		{Name: "trip_duration_seconds", Kind: "double"},
		{Name: "fare_amount", Kind: "double"},
		{Name: "tip_amount", Kind: "double"},
		{Name: "trip_speed_kmh", Kind: "double"},
		{Name: "fare_per_km", Kind: "double"},
		{Name: "tip_pct", Kind: "double"},
		{Name: "hour_of_day", Kind: "tinyint"},
		{Name: "day_of_week", Kind: "text"},
	}
}

// IndexedColumns lists the columns expected to carry secondary indexes for
// downstream query performance.
func IndexedColumns() []string {
	return []string{"pickup_datetime", "hour_of_day", "fare_amount"}
}
