// Package window implements the Window/Screen state machine of spec
// §4.3: a linked list of row bands sharing one terminal, each showing
// a buffer through its own Face (point, top line, horizontal scroll).
package window

import (
	"github.com/google/uuid"

	"mightemacs/internal/buffer"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

// MinRows is the smallest row band a Window may be reduced to; Resize
// and Delete refuse any operation that would go below it.
const MinRows = 1

// Face is the part of a Window's display state that belongs to one
// buffer: where the window is looking, independent of any other
// window on the same buffer (spec §4.3, and §3's per-window Face).
type Face struct {
	Point      text.Point
	TopLine    text.Point
	FirstCol   int // per-window horizontal scroll column, when ScrollMode == PerWindow
	ReframeRow int
	NeedReframe bool
}

// DirtyFlag records what redisplay must redo for a Window, set by
// editing and navigation and cleared once painted (spec §4.7 "For each
// window with any dirty bit").
type DirtyFlag uint8

const (
	WFEdit DirtyFlag = 1 << iota // repaint the point row
	WFHard                        // repaint every row
	WFMove                        // point moved; reposition the cursor
	WFMode                        // rebuild the mode line
)

// Window is one row band of a Screen, displaying Buf through Face.
type Window struct {
	ID   string
	Buf  *buffer.Buffer
	Face Face

	TopRow int
	Rows   int

	Flags DirtyFlag

	prev, next *Window
}

// SetFlags ORs f into the window's dirty bits.
func (w *Window) SetFlags(f DirtyFlag) { w.Flags |= f }

// ClearFlags ANDs f out of the window's dirty bits, once redisplay has
// honored them.
func (w *Window) ClearFlags(f DirtyFlag) { w.Flags &^= f }

// HasFlags reports whether any bit in f is set.
func (w *Window) HasFlags(f DirtyFlag) bool { return w.Flags&f != 0 }

// HorzScrollMode selects whether horizontal scroll position is kept
// per window or per screen (spec §4.3 "Horizontal scroll").
type HorzScrollMode int

const (
	PerWindow HorzScrollMode = iota
	PerScreen
)

// Screen owns the Window list for one terminal display.
type Screen struct {
	Rows, Cols int

	head, current *Window

	ScrollMode   HorzScrollMode
	ScreenFirstCol int // used when ScrollMode == PerScreen

	VertJumpPct int // clamped to [0,100]; 0 means smooth scroll
	HorzJumpPct int
}

// NewScreen returns a Screen of the given terminal size, holding a
// single full-height Window onto buf.
func NewScreen(rows, cols int, buf *buffer.Buffer) *Screen {
	w := newWindow(buf, 0, rows)
	s := &Screen{Rows: rows, Cols: cols, head: w, current: w, VertJumpPct: 0, HorzJumpPct: 0}
	return s
}

func newWindow(buf *buffer.Buffer, topRow, rows int) *Window {
	w := &Window{ID: uuid.NewString(), Buf: buf, TopRow: topRow, Rows: rows, Flags: WFHard | WFMode}
	w.Face.Point = buf.Point
	w.Face.TopLine = text.Point{Line: buf.Store().First(), Offset: 0}
	buf.TrackPoint(&w.Face.Point)
	buf.TrackPoint(&w.Face.TopLine)
	buf.OnEdit(func() { w.SetFlags(WFEdit | WFMode) })
	return w
}

// SetBuffer detaches w from its current buffer and attaches it to
// buf, reinitialising Face the same way a freshly split window would
// be (spec's visit-file/select-buffer commands point a window at a
// different buffer without otherwise disturbing the Screen).
func (w *Window) SetBuffer(buf *buffer.Buffer) {
	w.Buf.UntrackPoint(&w.Face.Point)
	w.Buf.UntrackPoint(&w.Face.TopLine)

	w.Buf = buf
	w.Face = Face{
		Point:   buf.Point,
		TopLine: text.Point{Line: buf.Store().First(), Offset: 0},
	}
	buf.TrackPoint(&w.Face.Point)
	buf.TrackPoint(&w.Face.TopLine)
	buf.OnEdit(func() { w.SetFlags(WFEdit | WFMode) })
	w.SetFlags(WFHard | WFMode)
}

// Current returns the Screen's current Window.
func (s *Screen) Current() *Window { return s.current }

// Head returns the first Window in row order.
func (s *Screen) Head() *Window { return s.head }

// SetCurrent makes w the current window; w must belong to s.
func (s *Screen) SetCurrent(w *Window) { s.current = w }

// Next returns the window below w in row order, or nil if w is the
// last window; it does not wrap to the head.
func (w *Window) Next() *Window {
	if w.next != nil {
		return w.next
	}
	return nil
}

// Prev returns the window above w in row order.
func (w *Window) Prev() *Window { return w.prev }

// Walk calls fn for every window top-to-bottom, stopping early if fn
// returns false.
func (s *Screen) Walk(fn func(*Window) bool) {
	for w := s.head; w != nil; w = w.next {
		if !fn(w) {
			return
		}
	}
}

// Count returns the number of windows on the screen.
func (s *Screen) Count() int {
	n := 0
	s.Walk(func(*Window) bool { n++; return true })
	return n
}

// Split halves the current window's row band and inserts a new window
// onto the same buffer below it (spec §4.3 "Split operation"). The new
// window becomes current.
func (s *Screen) Split() (*Window, status.Status) {
	cur := s.current
	if cur.Rows < 2*MinRows+1 {
		return nil, status.New(status.Failure, "window too small to split")
	}
	topHalf := cur.Rows / 2
	bottomHalf := cur.Rows - topHalf

	nw := newWindow(cur.Buf, cur.TopRow+topHalf, bottomHalf)
	cur.Rows = topHalf

	nw.prev = cur
	nw.next = cur.next
	if cur.next != nil {
		cur.next.prev = nw
	}
	cur.next = nw

	cur.SetFlags(WFHard | WFMode)
	nw.SetFlags(WFHard | WFMode)
	s.current = nw
	return nw, status.OK
}

// JoinDirection selects which neighbor absorbs a deleted window's rows
// (spec §4.3 "Delete operation").
type JoinDirection int

const (
	JoinBelow JoinDirection = iota
	JoinAbove
)

// Delete removes the current window, giving its rows to the neighbor
// named by dir. Deleting the only window on the screen is an error.
func (s *Screen) Delete(dir JoinDirection) status.Status {
	cur := s.current
	if cur.prev == nil && cur.next == nil {
		return status.New(status.Failure, "cannot delete the only window")
	}

	var target *Window
	if dir == JoinBelow && cur.next != nil {
		target = cur.next
	} else if cur.prev != nil {
		target = cur.prev
	} else {
		target = cur.next
	}

	target.Rows += cur.Rows
	if target == cur.next {
		target.TopRow = cur.TopRow
	}

	if cur.prev != nil {
		cur.prev.next = cur.next
	} else {
		s.head = cur.next
	}
	if cur.next != nil {
		cur.next.prev = cur.prev
	}

	cur.Buf.UntrackPoint(&cur.Face.Point)
	cur.Buf.UntrackPoint(&cur.Face.TopLine)

	target.SetFlags(WFHard | WFMode)
	s.current = target
	return status.OK
}

// Resize transfers delta rows from an adjacent window to the current
// one (negative delta gives rows away), refusing any change that
// would shrink either window below MinRows.
func (s *Screen) Resize(delta int) status.Status {
	cur := s.current
	var donor *Window
	if delta > 0 {
		if cur.next != nil {
			donor = cur.next
		} else if cur.prev != nil {
			donor = cur.prev
		}
	} else {
		if cur.prev != nil {
			donor = cur.prev
		} else if cur.next != nil {
			donor = cur.next
		}
	}
	if donor == nil {
		return status.New(status.Failure, "no adjacent window to resize against")
	}

	if cur.Rows+delta < MinRows {
		return status.New(status.Failure, "resize would shrink current window below %d row(s)", MinRows)
	}
	if donor.Rows-delta < MinRows {
		return status.New(status.Failure, "resize would shrink adjacent window below %d row(s)", MinRows)
	}

	cur.Rows += delta
	donor.Rows -= delta
	recomputeTopRows(s)
	cur.SetFlags(WFHard | WFMode)
	donor.SetFlags(WFHard | WFMode)
	return status.OK
}

// ResizeTerminal rescales every window's row band proportionally to a
// new terminal size (spec §4.7 Phase 1: "geometry/resize
// reconciliation"), giving any rounding remainder to the last window
// and clamping every band to at least MinRows.
func (s *Screen) ResizeTerminal(rows, cols int) {
	if rows == s.Rows && cols == s.Cols {
		return
	}
	oldRows := s.Rows
	s.Rows, s.Cols = rows, cols
	if oldRows <= 0 {
		oldRows = 1
	}

	row := 0
	var last *Window
	s.Walk(func(w *Window) bool {
		w.Rows = w.Rows * rows / oldRows
		if w.Rows < MinRows {
			w.Rows = MinRows
		}
		w.TopRow = row
		row += w.Rows
		last = w
		return true
	})
	if last != nil {
		last.Rows += rows - row
		if last.Rows < MinRows {
			last.Rows = MinRows
		}
	}
	recomputeTopRows(s)
}

func recomputeTopRows(s *Screen) {
	row := 0
	s.Walk(func(w *Window) bool {
		w.TopRow = row
		row += w.Rows
		return true
	})
}

// Only collapses every other window into the current one, which grows
// to occupy the whole screen (spec §4.3 "'Only window' collapses all
// other windows into the current").
func (s *Screen) Only() status.Status {
	cur := s.current
	for w := s.head; w != nil; {
		next := w.next
		if w != cur {
			w.Buf.UntrackPoint(&w.Face.Point)
			w.Buf.UntrackPoint(&w.Face.TopLine)
		}
		w = next
	}
	cur.prev, cur.next = nil, nil
	cur.TopRow = 0
	cur.Rows = s.Rows
	cur.SetFlags(WFHard | WFMode)
	s.head = cur
	return status.OK
}
