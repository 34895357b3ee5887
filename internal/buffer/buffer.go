package buffer

import (
	"mightemacs/internal/mode"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

// Flags holds the per-buffer boolean state of spec §3.
type Flags struct {
	Changed    bool
	ReadOnly   bool
	Hidden     bool
	CommandBuf bool // name is "@..."-prefixed: an executable command/function body
	Narrowed   bool
	Truncated  bool
	TermAttr   bool // terminal-attribute rendering enabled (spec §4.7 Phase 3)
}

// narrowSpan remembers a line range link-cut out of the active chain by
// narrowing, held separately for later widening (spec §3).
type narrowSpan struct {
	head text.LineID // head of the detached sub-chain, still owned by the store
}

// Buffer is a named, in-memory text container plus its modes, marks,
// and filename (spec §3).
type Buffer struct {
	Name     string
	Filename string
	Flags    Flags

	store       *text.Store
	Point       text.Point
	marks       map[string]*Mark
	fixup       markFixup
	changeCount int

	Modes *mode.BufferModes

	narrowedPrefix *narrowSpan
	narrowedSuffix *narrowSpan

	// onEdit is called after every successful mutation, once per
	// window displaying this buffer, so internal/window can raise
	// WFEdit without internal/buffer importing internal/window.
	onEdit []func()

	WordChars [256]bool
}

// New creates an empty buffer named name.
func New(name string) *Buffer {
	b := &Buffer{
		Name:      name,
		store:     text.NewStore(),
		marks:     make(map[string]*Mark),
		Modes:     mode.NewBufferModes(),
		WordChars: text.DefaultWordChars(),
	}
	b.Modes.BufferName = name
	b.Point = text.Point{Line: b.store.First(), Offset: 0}
	// b.fixup.points deliberately starts empty: the buffer's own Point
	// is always the one passed as the mutator's target and is advanced
	// by the mutator itself, not by the fixup hook. Only marks and the
	// points registered via TrackPoint (every window's face point and
	// top line, focused or not) get the passive fixup treatment.
	return b
}

// Store exposes the underlying line store for read-only callers
// (redisplay, region extraction) that don't need to go through the
// mutator API.
func (b *Buffer) Store() *text.Store { return b.store }

// LineCount returns the number of lines in the active (un-narrowed)
// chain.
func (b *Buffer) LineCount() int { return b.store.LineCount() }

// ChangeCount returns the buffer-change counter, incremented on every
// mutation (spec §4.1: "All mutators ... increment a buffer-change
// counter").
func (b *Buffer) ChangeCount() int { return b.changeCount }

// OnEdit registers a callback invoked after every successful mutation.
// internal/window uses this to set WFEdit on every window displaying
// the buffer.
func (b *Buffer) OnEdit(fn func()) {
	b.onEdit = append(b.onEdit, fn)
}

// TrackPoint registers an external text.Point (typically a window
// Face's point or top-line) so it receives the same mark-fixup
// treatment as buffer marks (spec §4.2).
func (b *Buffer) TrackPoint(p *text.Point) {
	b.fixup.points = append(b.fixup.points, p)
}

// UntrackPoint reverses TrackPoint.
func (b *Buffer) UntrackPoint(p *text.Point) {
	for i, q := range b.fixup.points {
		if q == p {
			b.fixup.points = append(b.fixup.points[:i], b.fixup.points[i+1:]...)
			return
		}
	}
}

func (b *Buffer) checkWritable() status.Status {
	if b.Flags.ReadOnly {
		return status.New(status.Failure, "buffer %q is read-only", b.Name)
	}
	return status.OK
}

func (b *Buffer) touched() {
	b.Flags.Changed = true
	b.changeCount++
	for _, fn := range b.onEdit {
		fn()
	}
}

// InsertBytes inserts raw at the buffer's point. Each '\n' in raw
// splits the line there, as InsertNewline does.
func (b *Buffer) InsertBytes(raw []byte) status.Status {
	if st := b.checkWritable(); st.IsError() {
		return st
	}
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i < len(raw) && raw[i] != '\n' {
			continue
		}
		if st := text.InsertBytes(b.store, &b.fixup, &b.Point, raw[start:i]); st.IsError() {
			return st
		}
		if i < len(raw) {
			if st := text.InsertNewline(b.store, &b.fixup, &b.Point); st.IsError() {
				return st
			}
		}
		start = i + 1
	}
	b.touched()
	return status.OK
}

// InsertNewline splits the current line at the point.
func (b *Buffer) InsertNewline() status.Status {
	if st := b.checkWritable(); st.IsError() {
		return st
	}
	st := text.InsertNewline(b.store, &b.fixup, &b.Point)
	if !st.IsError() {
		b.touched()
	}
	return st
}

// DeleteForward deletes n bytes forward from the point.
func (b *Buffer) DeleteForward(n int) ([]byte, status.Status) {
	if st := b.checkWritable(); st.IsError() {
		return nil, st
	}
	removed, st := text.DeleteForward(b.store, &b.fixup, &b.Point, n)
	if !st.IsError() && len(removed) > 0 {
		b.touched()
	}
	return removed, st
}

// DeleteBackward deletes n bytes backward from the point.
func (b *Buffer) DeleteBackward(n int) ([]byte, status.Status) {
	if st := b.checkWritable(); st.IsError() {
		return nil, st
	}
	removed, st := text.DeleteBackward(b.store, &b.fixup, &b.Point, n)
	if !st.IsError() && len(removed) > 0 {
		b.touched()
	}
	return removed, st
}

// ReplaceChar overwrites the byte at the point without moving it.
func (b *Buffer) ReplaceChar(c byte) status.Status {
	if st := b.checkWritable(); st.IsError() {
		return st
	}
	st := text.ReplaceChar(b.store, b.Point, c)
	if !st.IsError() {
		b.touched()
	}
	return st
}

// SetMark creates or moves the named mark to the buffer's current
// point.
func (b *Buffer) SetMark(id string) {
	if m, ok := b.marks[id]; ok {
		m.Point = b.Point
		return
	}
	m := &Mark{ID: id, Point: b.Point}
	b.marks[id] = m
	b.fixup.points = append(b.fixup.points, &m.Point)
}

// Mark returns the named mark, or nil if unset.
func (b *Buffer) Mark(id string) *Mark { return b.marks[id] }

// DeleteMark removes the named mark.
func (b *Buffer) DeleteMark(id string) {
	m, ok := b.marks[id]
	if !ok {
		return
	}
	b.UntrackPoint(&m.Point)
	delete(b.marks, id)
}

// Region returns the normalised region between the point and the named
// mark.
func (b *Buffer) Region(markID string) (text.Region, status.Status) {
	m, ok := b.marks[markID]
	if !ok {
		return text.Region{}, status.New(status.Failure, "no mark %q set", markID)
	}
	return text.NewRegion(b.store, b.Point, m.Point), status.OK
}
