package trip

import (
	"testing"
	"time"
)

func TestColumnsAndRowStayAligned(t *testing.T) {
	t.Parallel()

	tr := &Trip{}
	if got, want := len(tr.Row()), len(Columns()); got != want {
		t.Fatalf("Row has %d values, Columns has %d", got, want)
	}
}

func TestRowPositionalValues(t *testing.T) {
	t.Parallel()

	pickup := time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC)
	fare := 20.0
	vendor := "2"
	tr := &Trip{
		PickupDatetime: &pickup,
		PassengerCount: 3,
		FareAmount:     &fare,
		TipAmount:      4,
		VendorCode:     &vendor,
	}
	row := tr.Row()
	byName := map[string]any{}
	for i, c := range Columns() {
		byName[c] = row[i]
	}

	if got := byName["pickup_datetime"]; got != pickup {
		t.Errorf("pickup_datetime = %v, want %v", got, pickup)
	}
	if got := byName["passenger_count"]; got != 3 {
		t.Errorf("passenger_count = %v, want 3", got)
	}
	if got := byName["fare_amount"]; got != 20.0 {
		t.Errorf("fare_amount = %v, want 20", got)
	}
	if got := byName["tip_amount"]; got != 4.0 {
		t.Errorf("tip_amount = %v, want 4", got)
	}
	if got := byName["vendor_code"]; got != "2" {
		t.Errorf("vendor_code = %v, want 2", got)
	}
	if got := byName["dropoff_datetime"]; got != nil {
		t.Errorf("unset dropoff_datetime = %v, want nil", got)
	}
	if got := byName["tip_pct"]; got != nil {
		t.Errorf("unset tip_pct = %v, want nil", got)
	}
}

func TestSchemaCoversAllInsertColumns(t *testing.T) {
	t.Parallel()

	inSchema := map[string]bool{}
	for _, c := range Schema() {
		inSchema[c.Name] = true
	}
	for _, c := range Columns() {
		if !inSchema[c] {
			t.Errorf("insert column %s missing from destination schema", c)
		}
	}
	for _, c := range IndexedColumns() {
		if !inSchema[c] {
			t.Errorf("indexed column %s missing from destination schema", c)
		}
	}
}

func TestInBounds(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }
	cases := []struct {
		name     string
		lat, lon *float64
		want     bool
	}{
		{"midtown", f(40.75), f(-73.98), true},
		{"southwest corner", f(MinLat), f(MinLon), true},
		{"northeast corner", f(MaxLat), f(MaxLon), true},
		{"null island", f(0), f(0), false},
		{"too far north", f(41.2), f(-73.98), false},
		{"too far east", f(40.75), f(-73.5), false},
		{"nil latitude", nil, f(-73.98), false},
		{"nil longitude", f(40.75), nil, false},
	}
	for _, tc := range cases {
		if got := InBounds(tc.lat, tc.lon); got != tc.want {
			t.Errorf("%s: InBounds = %v, want %v", tc.name, got, tc.want)
		}
	}
}
