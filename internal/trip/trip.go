// Package trip defines the canonical trip record produced by the cleaning
// pipeline and the fixed destination schema it is loaded into.
//
// The canonical column set and its order are load-bearing: the storage layer
// binds insert values positionally, so Columns and Trip.Row must stay in
// lockstep. Any change here is a destination schema change.
package trip

import "time"

// Geographic acceptance bounds (NYC approximation, decimal degrees).
const (
	MinLat = 40.4
	MaxLat = 40.95
	MinLon = -74.35
	MaxLon = -73.7
)

// MilesToKm is the conversion factor applied by the unit heuristic.
const MilesToKm = 1.60934

// Rejection reason tags. A rejected row carries one or more of these joined
// with ReasonSep.
const (
	ReasonMissingTimestamps   = "missing_timestamps"
	ReasonDropoffBeforePickup = "dropoff_before_pickup"
	ReasonInvalidPickupCoord  = "invalid_pickup_coord"
	ReasonInvalidDropoffCoord = "invalid_dropoff_coord"
	ReasonInvalidDistance     = "invalid_distance"
	ReasonInvalidDuration     = "invalid_duration"
	ReasonInvalidFare         = "invalid_fare"
	ReasonUnrealisticSpeed    = "unrealistic_speed"
)

// ReasonSep joins multiple reason tags into the audit string.
const ReasonSep = ";"

// MaxSpeedKmh is the plausibility ceiling for derived speed.
const MaxSpeedKmh = 200.0

// Trip is the canonical, typed record. Pointer fields are nullable: a nil
// pointer reaches the sink as SQL NULL. PassengerCount is never nil (defaults
// to 1 during normalization); TipAmount defaults to 0.
type Trip struct {
	PickupDatetime  *time.Time
	DropoffDatetime *time.Time

	PickupLat  *float64
	PickupLon  *float64
	DropoffLat *float64
	DropoffLon *float64

	PassengerCount int
	DistanceKm     *float64
	DurationSec    *float64

	FareAmount *float64
	TipAmount  float64

	SpeedKmh  *float64
	FarePerKm *float64
	TipPct    *float64

	HourOfDay *int
	DayOfWeek *string

	VendorCode *string
}

// Columns is the ordered canonical column list used for every insert. The
// destination table additionally has an auto-assigned id column which is never
// bound here.
func Columns() []string {
	return []string{
		"pickup_datetime", "dropoff_datetime",
		"pickup_lat", "pickup_lon", "dropoff_lat", "dropoff_lon",
		"passenger_count", "trip_distance_km", "trip_duration_seconds",
		"fare_amount", "tip_amount", "trip_speed_kmh", "fare_per_km",
		"tip_pct", "hour_of_day", "day_of_week", "vendor_code",
	}
}

// Row converts the trip into positional insert values aligned with Columns.
// Timestamps stay time.Time; drivers that store text render them themselves.
func (t *Trip) Row() []any {
	return []any{
		fmtTime(t.PickupDatetime),
		fmtTime(t.DropoffDatetime),
		deref(t.PickupLat),
		deref(t.PickupLon),
		deref(t.DropoffLat),
		deref(t.DropoffLon),
		t.PassengerCount,
		deref(t.DistanceKm),
		deref(t.DurationSec),
		deref(t.FareAmount),
		t.TipAmount,
		deref(t.SpeedKmh),
		deref(t.FarePerKm),
		deref(t.TipPct),
		derefInt(t.HourOfDay),
		derefStr(t.DayOfWeek),
		derefStr(t.VendorCode),
	}
}

func fmtTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func deref(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func derefInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func derefStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// InBounds reports whether the coordinate pair lies inside the acceptance
// bounding box. Nil operands are out of bounds.
func InBounds(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= MinLat && *lat <= MaxLat && *lon >= MinLon && *lon <= MaxLon
}
