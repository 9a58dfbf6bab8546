// Package clean turns raw heterogeneous trip rows into canonical records:
// column-name resolution via ordered alias lists, unit correction for
// distances, feature derivation, and multi-reason row validation.
//
// Coercion failures at this stage never raise; they produce null fields whose
// fate is decided by the validator.
package clean

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"tripetl/internal/trip"
	"tripetl/pkg/records"
)

// Units pins or defers the miles-vs-kilometers decision for source distances.
type Units string

const (
	// UnitsAuto applies the per-chunk statistical heuristic.
	UnitsAuto Units = "auto"
	// UnitsKm never converts; source values are taken as kilometers.
	UnitsKm Units = "km"
	// UnitsMiles always converts source values to kilometers.
	UnitsMiles Units = "miles"
)

// Aliases maps each canonical field to its known source spellings, tried in
// priority order; the first alias present in the input header wins and later
// ones are never consulted. Kept as a static table so priority stays
// auditable.
var Aliases = map[string][]string{
	"pickup_datetime":  {"tpep_pickup_datetime", "pickup_datetime", "pickup_time", "pickup_ts"},
	"dropoff_datetime": {"tpep_dropoff_datetime", "dropoff_datetime", "dropoff_time", "dropoff_ts"},
	"pickup_lon":       {"pickup_longitude", "pickup_lon", "pickup_long"},
	"pickup_lat":       {"pickup_latitude", "pickup_lat", "pickup_latitude_decimal"},
	"dropoff_lon":      {"dropoff_longitude", "dropoff_lon", "dropoff_long"},
	"dropoff_lat":      {"dropoff_latitude", "dropoff_lat", "dropoff_latitude_decimal"},
	"trip_distance_km": {"trip_distance", "distance", "tripdistance"},
	"fare_amount":      {"fare_amount", "fare", "fareamount"},
	"tip_amount":       {"tip_amount", "tip", "tipamount"},
	"passenger_count":  {"passenger_count"},
	"vendor_code":      {"vendor_id", "vendor"},
}

// timeLayouts are tried in order when coercing timestamp strings.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalizer maps raw rows into partially-typed canonical trips.
type Normalizer struct {
	Units Units
}

// Chunk normalizes one chunk. No rows are dropped here; every input row
// yields exactly one (possibly mostly-null) trip. The unit decision is made
// per chunk, so heterogeneous datasets may see different conversions across
// chunks of the same run.
func (n Normalizer) Chunk(in []records.Record) []*trip.Trip {
	out := make([]*trip.Trip, len(in))
	for i, r := range in {
		out[i] = normalizeRow(r)
	}
	n.applyUnits(out)
	return out
}

func normalizeRow(r records.Record) *trip.Trip {
	t := &trip.Trip{PassengerCount: 1}

	t.PickupDatetime = coerceTime(first(r, Aliases["pickup_datetime"]))
	t.DropoffDatetime = coerceTime(first(r, Aliases["dropoff_datetime"]))

	t.PickupLon = coerceFloat(first(r, Aliases["pickup_lon"]))
	t.PickupLat = coerceFloat(first(r, Aliases["pickup_lat"]))
	t.DropoffLon = coerceFloat(first(r, Aliases["dropoff_lon"]))
	t.DropoffLat = coerceFloat(first(r, Aliases["dropoff_lat"]))

	t.DistanceKm = coerceFloat(first(r, Aliases["trip_distance_km"]))
	t.FareAmount = coerceFloat(first(r, Aliases["fare_amount"]))

	if tip := coerceFloat(first(r, Aliases["tip_amount"])); tip != nil {
		t.TipAmount = *tip
	}
	if pc := coerceFloat(first(r, Aliases["passenger_count"])); pc != nil {
		t.PassengerCount = int(*pc)
	}
	if v, ok := first(r, Aliases["vendor_code"]); ok {
		if s := asString(v); s != "" {
			t.VendorCode = &s
		}
	}
	return t
}

// first returns the value of the highest-priority alias whose column exists
// in the row, along with whether any alias matched. A matched column with an
// empty or garbled value still wins; coercion decides what becomes of it.
func first(r records.Record, aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := r[a]; ok {
			return v, true
		}
	}
	return nil, false
}

// applyUnits converts chunk distances from miles to kilometers when the
// configured mode (or the heuristic, under auto) says the source is miles.
func (n Normalizer) applyUnits(trips []*trip.Trip) {
	convert := false
	switch n.Units {
	case UnitsMiles:
		convert = true
	case UnitsKm:
		convert = false
	default:
		convert = looksLikeMiles(trips)
	}
	if !convert {
		return
	}
	for _, t := range trips {
		if t.DistanceKm != nil {
			km := *t.DistanceKm * trip.MilesToKm
			t.DistanceKm = &km
		}
	}
}

// looksLikeMiles is the population heuristic: the chunk's non-null distances
// are judged as miles when their mean is under 200 and their median under 30.
func looksLikeMiles(trips []*trip.Trip) bool {
	vals := make([]float64, 0, len(trips))
	sum := 0.0
	for _, t := range trips {
		if t.DistanceKm != nil {
			vals = append(vals, *t.DistanceKm)
			sum += *t.DistanceKm
		}
	}
	if len(vals) == 0 {
		return false
	}
	mean := sum / float64(len(vals))
	return mean < 200 && median(vals) < 30
}

// median mutates vals (sorts in place); callers pass a scratch slice.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// coerceFloat turns a raw cell into a finite float, or nil. Unparseable and
// non-finite inputs are nulls, not errors.
func coerceFloat(v any, ok bool) *float64 {
	if !ok || v == nil {
		return nil
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// coerceTime parses a raw cell against the known layouts, or returns nil.
func coerceTime(v any, ok bool) *time.Time {
	if !ok || v == nil {
		return nil
	}
	if t, isTime := v.(time.Time); isTime {
		return &t
	}
	s, isStr := v.(string)
	if !isStr {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
