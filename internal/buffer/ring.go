package buffer

import "mightemacs/internal/datum"

// Ring is the fixed-capacity circular list of kept Datum entries
// described in spec §3: the kill ring, delete ring, search ring,
// replace ring, and macro ring are each one of these. Entries grow
// geometrically (mirroring prolib's dynamic-array growth) until the
// cap is reached, after which inserting evicts the oldest entry.
type Ring struct {
	Name string
	cap  int
	buf  []datum.Datum
	head int // index of the most recently inserted entry
}

// NewRing returns an empty ring with the given entry cap.
func NewRing(name string, cap int) *Ring {
	return &Ring{Name: name, cap: cap, head: -1}
}

// Cap returns the ring's entry capacity.
func (r *Ring) Cap() int { return r.cap }

// Len returns the number of entries currently held.
func (r *Ring) Len() int { return len(r.buf) }

// Insert pushes d as the new head entry, evicting the oldest entry if
// the ring is already at capacity.
func (r *Ring) Insert(d datum.Datum) {
	if len(r.buf) < r.cap {
		// shift existing entries back to make room at index 0,
		// geometric growth is just Go's append doing its thing here.
		r.buf = append(r.buf, datum.Nil())
		copy(r.buf[1:], r.buf[:len(r.buf)-1])
		r.buf[0] = d
		return
	}
	// at capacity: oldest (last) entry is evicted by the shift.
	copy(r.buf[1:], r.buf[:len(r.buf)-1])
	r.buf[0] = d
}

// Head returns the most recently inserted entry, and whether the ring
// is non-empty.
func (r *Ring) Head() (datum.Datum, bool) {
	if len(r.buf) == 0 {
		return datum.Datum{}, false
	}
	return r.buf[0], true
}

// At returns the entry n positions back from the head (0 = head),
// wrapping around the ring.
func (r *Ring) At(n int) (datum.Datum, bool) {
	if len(r.buf) == 0 {
		return datum.Datum{}, false
	}
	idx := ((n % len(r.buf)) + len(r.buf)) % len(r.buf)
	return r.buf[idx], true
}
