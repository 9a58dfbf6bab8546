package clean

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"tripetl/internal/trip"
)

// Dedup drops exact repeats of accepted canonical rows across a run
// (keep-first). It exists for idempotent reloads: re-running a partially
// loaded dataset against a truncated target stays correct, and enabling dedup
// on the retry suppresses rows the earlier attempt already produced twice in
// the source.
//
// Cost is one uint64 per distinct accepted row for the lifetime of the run,
// which is the documented exception to the one-chunk memory bound. Hash
// collisions would silently drop a legitimate row; with a 64-bit hash this is
// accepted for the volumes involved.
type Dedup struct {
	seen map[uint64]struct{}

	// Dropped counts rows suppressed so far.
	Dropped int
}

// NewDedup returns an empty run-scoped dedup filter.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[uint64]struct{})}
}

// Filter returns the trips whose canonical row has not been seen before in
// this run, preserving order.
func (d *Dedup) Filter(trips []*trip.Trip) []*trip.Trip {
	out := trips[:0]
	for _, t := range trips {
		h := rowHash(t)
		if _, dup := d.seen[h]; dup {
			d.Dropped++
			continue
		}
		d.seen[h] = struct{}{}
		out = append(out, t)
	}
	return out
}

// rowHash hashes the positional canonical values with a field separator so
// adjacent fields cannot alias each other.
func rowHash(t *trip.Trip) uint64 {
	var b strings.Builder
	for _, v := range t.Row() {
		if v == nil {
			b.WriteByte(0x00)
		} else {
			fmt.Fprint(&b, v)
		}
		b.WriteByte(0x1f)
	}
	return xxh3.HashString(b.String())
}
