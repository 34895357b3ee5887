// Package session ties every other component into the single,
// explicit state object a dispatch loop and script engine both
// operate on. Per spec §9's design note, this replaces the source's
// scattered global `sess.*`/`sess.cur.*`/`sess.edit.*` C structures
// with one Session value threaded explicitly instead of touched as
// ambient global state.
package session

import (
	"mightemacs/internal/buffer"
	"mightemacs/internal/key"
	"mightemacs/internal/mode"
	"mightemacs/internal/status"
	"mightemacs/internal/window"
)

// Ring names, spec §3 "There are several: kill ring, delete ring,
// search ring, replace ring, macro ring."
const (
	RingKill    = "kill"
	RingDelete  = "delete"
	RingSearch  = "search"
	RingReplace = "replace"
	RingMacro   = "macro"
)

// defaultRingCap matches the source's default ring sizes closely
// enough for the spec's purposes: enough history to be useful without
// unbounded growth.
const defaultRingCap = 32

// Session is the whole in-memory editor state for one run.
type Session struct {
	Buffers map[string]*buffer.Buffer // keyed by buffer name, globally unique
	Screens []*window.Screen
	Current *window.Screen

	Modes *mode.Table
	Keys  *key.Table
	Macro *key.Engine

	Rings map[string]*buffer.Ring

	Dir string // current working directory, shared across screens

	// Status is the single session-wide ReturnStatus object (spec
	// §7): every operation's outcome flows through here before being
	// rendered on the message line and cleared.
	Status status.Status

	// ReturnMsg is Status.Msg as of the last completed operation,
	// surviving the next Status reset until overwritten. No script
	// variable ($ReturnMsg or other) is registered to read it.
	ReturnMsg string

	WrapCol    int
	HardTabSize int
	SoftTabSize int
}

// New returns a Session with an initial "scratch" buffer and a
// single-window screen of the given terminal size.
func New(rows, cols int) *Session {
	scratch := buffer.New("scratch")
	scr := window.NewScreen(rows, cols, scratch)

	s := &Session{
		Buffers: map[string]*buffer.Buffer{"scratch": scratch},
		Screens: []*window.Screen{scr},
		Current: scr,
		Modes:   mode.NewTable(),
		Keys:    key.NewTable(),
		Macro:   key.NewEngine(),
		Rings:   make(map[string]*buffer.Ring),

		HardTabSize: 8,
		SoftTabSize: 0,
	}
	for _, name := range []string{RingKill, RingDelete, RingSearch, RingReplace, RingMacro} {
		s.Rings[name] = buffer.NewRing(name, defaultRingCap)
	}
	return s
}

// CreateBuffer creates and registers a new empty buffer, failing if
// the name is already taken (spec §3: "Buffer names are globally
// unique within a session").
func (s *Session) CreateBuffer(name string) (*buffer.Buffer, status.Status) {
	if _, exists := s.Buffers[name]; exists {
		return nil, status.New(status.Failure, "buffer %q already exists", name)
	}
	b := buffer.New(name)
	s.Buffers[name] = b
	return b, status.OK
}

// DeleteBuffer removes a buffer from the session. It does not check
// whether any window still displays it; callers (the delete-buffer
// command) are expected to reassign or refuse first.
func (s *Session) DeleteBuffer(name string) status.Status {
	if _, ok := s.Buffers[name]; !ok {
		return status.New(status.Failure, "no such buffer %q", name)
	}
	delete(s.Buffers, name)
	return status.OK
}

// SetStatus records st as the session's current ReturnStatus,
// upgrading rather than overwriting whenever the new status is less
// severe and Status already holds an unresolved error (spec §4.6
// "Upgrades are monotonic").
func (s *Session) SetStatus(st status.Status) {
	s.Status = s.Status.Upgrade(st)
	if s.Status.Msg != "" {
		s.ReturnMsg = s.Status.Msg
	}
}

// ClearStatus resets Status to OK, as done "at the top of the
// dispatch loop" after the prior status has been rendered.
func (s *Session) ClearStatus() {
	s.Status = status.OK
}
