package clean

import (
	"math"

	"tripetl/internal/trip"
)

// Derive computes the analytic features of a normalized trip in place. It
// never fails: every derivation degrades to null when its inputs are missing
// or invalid, and no non-finite value survives into the record.
func Derive(t *trip.Trip) {
	if t.PickupDatetime != nil && t.DropoffDatetime != nil {
		d := t.DropoffDatetime.Sub(*t.PickupDatetime).Seconds()
		t.DurationSec = &d
	}

	if t.DurationSec != nil && *t.DurationSec > 0 &&
		t.DistanceKm != nil && *t.DistanceKm > 0 {
		hours := *t.DurationSec / 3600.0
		t.SpeedKmh = finite(*t.DistanceKm / hours)
	}

	t.FarePerKm = safeDiv(t.FareAmount, t.DistanceKm)
	t.TipPct = safeDiv(&t.TipAmount, t.FareAmount)

	if t.PickupDatetime != nil {
		h := t.PickupDatetime.Hour()
		day := t.PickupDatetime.Weekday().String()
		t.HourOfDay = &h
		t.DayOfWeek = &day
	}
}

// safeDiv divides a by b with null propagation: nil when either operand is
// missing, the divisor is zero, or the quotient is not finite. Infinity and
// NaN never reach storage.
func safeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	return finite(*a / *b)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
