package clean

import (
	"reflect"
	"testing"
	"time"

	"tripetl/internal/trip"
)

// validTrip returns a trip that passes every rule; tests break one field at a
// time.
func validTrip() *trip.Trip {
	pickup := time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC)
	dropoff := pickup.Add(15 * time.Minute)
	tr := &trip.Trip{
		PickupDatetime:  &pickup,
		DropoffDatetime: &dropoff,
		PickupLat:       fptr(40.75),
		PickupLon:       fptr(-73.98),
		DropoffLat:      fptr(40.76),
		DropoffLon:      fptr(-73.97),
		PassengerCount:  1,
		DistanceKm:      fptr(5),
		FareAmount:      fptr(20),
	}
	Derive(tr)
	return tr
}

func TestCheckAcceptsValidRow(t *testing.T) {
	t.Parallel()

	if reasons := Check(validTrip()); len(reasons) != 0 {
		t.Fatalf("valid row rejected with %v", reasons)
	}
}

func TestCheckSingleRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*trip.Trip)
		want   string
	}{
		{"missing pickup", func(tr *trip.Trip) { tr.PickupDatetime = nil }, trip.ReasonMissingTimestamps},
		{"missing dropoff", func(tr *trip.Trip) { tr.DropoffDatetime = nil }, trip.ReasonMissingTimestamps},
		{"pickup out of bounds", func(tr *trip.Trip) { tr.PickupLat = fptr(0); tr.PickupLon = fptr(0) }, trip.ReasonInvalidPickupCoord},
		{"dropoff latitude too far north", func(tr *trip.Trip) { tr.DropoffLat = fptr(41.5) }, trip.ReasonInvalidDropoffCoord},
		{"negative distance", func(tr *trip.Trip) { tr.DistanceKm = fptr(-1) }, trip.ReasonInvalidDistance},
		{"null distance", func(tr *trip.Trip) { tr.DistanceKm = nil }, trip.ReasonInvalidDistance},
		{"zero duration", func(tr *trip.Trip) { tr.DurationSec = fptr(0) }, trip.ReasonInvalidDuration},
		{"negative fare", func(tr *trip.Trip) { tr.FareAmount = fptr(-2.5) }, trip.ReasonInvalidFare},
		{"implausible speed", func(tr *trip.Trip) { tr.SpeedKmh = fptr(410) }, trip.ReasonUnrealisticSpeed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTrip()
			tc.mutate(tr)
			reasons := Check(tr)
			if !contains(reasons, tc.want) {
				t.Errorf("reasons = %v, want to contain %q", reasons, tc.want)
			}
		})
	}
}

func TestCheckDropoffBeforePickup(t *testing.T) {
	t.Parallel()

	tr := validTrip()
	earlier := tr.PickupDatetime.Add(-time.Hour)
	tr.DropoffDatetime = &earlier
	Derive(tr)

	reasons := Check(tr)
	if !contains(reasons, trip.ReasonDropoffBeforePickup) {
		t.Errorf("reasons = %v, want dropoff_before_pickup", reasons)
	}
	// The negative duration independently trips the duration rule too.
	if !contains(reasons, trip.ReasonInvalidDuration) {
		t.Errorf("reasons = %v, want invalid_duration alongside", reasons)
	}
}

func TestCheckAccumulatesReasons(t *testing.T) {
	t.Parallel()

	tr := validTrip()
	tr.PickupLat = fptr(0)
	tr.PickupLon = fptr(0)
	tr.FareAmount = fptr(-1)

	reasons := Check(tr)
	for _, want := range []string{trip.ReasonInvalidPickupCoord, trip.ReasonInvalidFare} {
		if !contains(reasons, want) {
			t.Errorf("reasons = %v, want to contain %q", reasons, want)
		}
	}
}

func TestReasonString(t *testing.T) {
	t.Parallel()

	r := Rejected{Reasons: []string{trip.ReasonInvalidPickupCoord, trip.ReasonInvalidFare}}
	if got, want := r.ReasonString(), "invalid_pickup_coord;invalid_fare"; got != want {
		t.Errorf("ReasonString = %q, want %q", got, want)
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	t.Parallel()

	good1, good2 := validTrip(), validTrip()
	bad := validTrip()
	bad.FareAmount = fptr(-9)

	accepted, rejected := Split([]*trip.Trip{good1, bad, good2})
	if len(accepted) != 2 || accepted[0] != good1 || accepted[1] != good2 {
		t.Fatalf("accepted = %d rows, want the two valid ones in order", len(accepted))
	}
	if len(rejected) != 1 || rejected[0].Index != 1 {
		t.Fatalf("rejected = %+v, want one row at index 1", rejected)
	}
	if want := []string{trip.ReasonInvalidFare}; !reflect.DeepEqual(rejected[0].Reasons, want) {
		t.Errorf("reasons = %v, want %v", rejected[0].Reasons, want)
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
