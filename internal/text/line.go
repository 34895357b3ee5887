// Package text implements the per-buffer line store described in spec
// §4.1: a doubly-linked list of variable-length byte lines, addressed
// by a stable id rather than a raw pointer.
//
// The source threads raw Line* pointers through the list and through
// every mark, so every mutation has to walk mark lists by hand to fix
// up dangling pointers. Per the §9 design note ("Arena + index instead
// of raw pointers for lines and marks") this store hands out a LineID
// instead: a line is never moved once created, only unlinked, so a
// mark can hold (LineID, offset) and survive any number of edits to
// other lines without walking anything.
package text

// LineID stably identifies a line within one Store. The zero value
// means "no line."
type LineID uint64

type line struct {
	prev, next LineID
	data       []byte
}

// Store is one buffer's line list. A Store is never empty: a freshly
// created one holds a single zero-length line (spec §3, §8 invariant 1).
type Store struct {
	lines  map[LineID]*line
	first  LineID
	last   LineID
	nextID LineID
}

// NewStore returns a Store with one empty line.
func NewStore() *Store {
	s := &Store{lines: make(map[LineID]*line)}
	id := s.alloc(nil)
	s.first, s.last = id, id
	return s
}

func (s *Store) alloc(data []byte) LineID {
	s.nextID++
	id := s.nextID
	s.lines[id] = &line{data: data}
	return id
}

// First returns the id of the first line.
func (s *Store) First() LineID { return s.first }

// Last returns the id of the last line.
func (s *Store) Last() LineID { return s.last }

// Next returns the id following id, or 0 if id is the last line.
func (s *Store) Next(id LineID) LineID { return s.lines[id].next }

// Prev returns the id preceding id, or 0 if id is the first line.
func (s *Store) Prev(id LineID) LineID { return s.lines[id].prev }

// Len returns the number of bytes used by line id.
func (s *Store) Len(id LineID) int { return len(s.lines[id].data) }

// Bytes returns the byte content of line id. The caller must not
// mutate the returned slice.
func (s *Store) Bytes(id LineID) []byte { return s.lines[id].data }

// Valid reports whether id names a line currently in the store
// (invariant 3: every mark's line is a member of its buffer's line
// list).
func (s *Store) Valid(id LineID) bool {
	_, ok := s.lines[id]
	return ok
}

// LineCount returns the number of lines currently linked in.
func (s *Store) LineCount() int {
	n := 0
	for id := s.first; id != 0; id = s.lines[id].next {
		n++
	}
	return n
}

// linkAfter inserts newID immediately after afterID.
func (s *Store) linkAfter(afterID, newID LineID) {
	after := s.lines[afterID]
	next := after.next
	after.next = newID
	s.lines[newID].prev = afterID
	s.lines[newID].next = next
	if next != 0 {
		s.lines[next].prev = newID
	} else {
		s.last = newID
	}
}

// DetachPrefix cuts the chain just before keepFirst, unlinking
// everything from the current first line up to (not including)
// keepFirst. The detached span's head id is returned (0 if there was
// nothing to detach); the caller is responsible for remembering it to
// splice back in later (spec §3 "Narrowing").
func (s *Store) DetachPrefix(keepFirst LineID) LineID {
	if keepFirst == s.first {
		return 0
	}
	head := s.first
	tailOfDetached := s.lines[keepFirst].prev
	s.lines[tailOfDetached].next = 0
	s.lines[keepFirst].prev = 0
	s.first = keepFirst
	return head
}

// DetachSuffix cuts the chain just after keepLast, unlinking everything
// from just past keepLast to the current last line. The detached
// span's head id is returned (0 if there was nothing to detach).
func (s *Store) DetachSuffix(keepLast LineID) LineID {
	if keepLast == s.last {
		return 0
	}
	head := s.lines[keepLast].next
	s.lines[keepLast].next = 0
	s.lines[head].prev = 0
	s.last = keepLast
	return head
}

// ReattachPrefix splices a span previously returned by DetachPrefix
// back in immediately before the current first line.
func (s *Store) ReattachPrefix(head LineID) {
	if head == 0 {
		return
	}
	tail := head
	for s.lines[tail].next != 0 {
		tail = s.lines[tail].next
	}
	s.lines[tail].next = s.first
	s.lines[s.first].prev = tail
	s.first = head
}

// ReattachSuffix splices a span previously returned by DetachSuffix
// back in immediately after the current last line.
func (s *Store) ReattachSuffix(head LineID) {
	if head == 0 {
		return
	}
	s.lines[s.last].next = head
	s.lines[head].prev = s.last
	tail := head
	for s.lines[tail].next != 0 {
		tail = s.lines[tail].next
	}
	s.last = tail
}

// Walk calls fn for each line from first to last, stopping early if fn
// returns false.
func (s *Store) Walk(fn func(id LineID) bool) {
	for id := s.first; id != 0; id = s.lines[id].next {
		if !fn(id) {
			return
		}
	}
}
