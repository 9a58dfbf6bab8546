package clean

import (
	"math"
	"strings"

	"tripetl/internal/trip"
)

// Rejected describes one row that failed validation. Only the reasons and the
// chunk-relative position survive; the row's field values are deliberately
// not retained beyond this.
type Rejected struct {
	Index   int
	Reasons []string
}

// ReasonString joins the accumulated reasons into the audit-trail form.
func (r Rejected) ReasonString() string {
	return strings.Join(r.Reasons, trip.ReasonSep)
}

// Check classifies one normalized and derived trip. Every rule is evaluated
// independently so a row with several simultaneous defects carries every
// applicable tag; an empty result means the row is accepted.
func Check(t *trip.Trip) []string {
	var reasons []string

	if t.PickupDatetime == nil || t.DropoffDatetime == nil {
		reasons = append(reasons, trip.ReasonMissingTimestamps)
	} else if t.DropoffDatetime.Before(*t.PickupDatetime) {
		reasons = append(reasons, trip.ReasonDropoffBeforePickup)
	}

	if !trip.InBounds(t.PickupLat, t.PickupLon) {
		reasons = append(reasons, trip.ReasonInvalidPickupCoord)
	}
	if !trip.InBounds(t.DropoffLat, t.DropoffLon) {
		reasons = append(reasons, trip.ReasonInvalidDropoffCoord)
	}

	if t.DistanceKm == nil || *t.DistanceKm < 0 {
		reasons = append(reasons, trip.ReasonInvalidDistance)
	}
	if t.DurationSec == nil || *t.DurationSec <= 0 {
		reasons = append(reasons, trip.ReasonInvalidDuration)
	}
	if t.FareAmount == nil || *t.FareAmount < 0 {
		reasons = append(reasons, trip.ReasonInvalidFare)
	}

	if s := t.SpeedKmh; s != nil && !math.IsNaN(*s) && !math.IsInf(*s, 0) && *s > trip.MaxSpeedKmh {
		reasons = append(reasons, trip.ReasonUnrealisticSpeed)
	}

	return reasons
}

// Split partitions a chunk of normalized+derived trips into accepted trips
// and rejection records, preserving order.
func Split(trips []*trip.Trip) (accepted []*trip.Trip, rejected []Rejected) {
	for i, t := range trips {
		if reasons := Check(t); len(reasons) > 0 {
			rejected = append(rejected, Rejected{Index: i, Reasons: reasons})
			continue
		}
		accepted = append(accepted, t)
	}
	return accepted, rejected
}
