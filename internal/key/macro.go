package key

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mightemacs/internal/status"
)

// MacroState is the three-state record/play machine of spec §4.5.
type MacroState int

const (
	MacroStopped MacroState = iota
	MacroRecording
	MacroPlaying
)

// Macro is one recorded keyboard macro: a name and its flat key
// sequence, one entry per key the read loop returned. A Meta-prefixed
// key is one entry with the Meta bit set (ESC x arrives as Meta|x); it
// is not split into a prefix entry and a key entry.
type Macro struct {
	ID   string // uuid, stable identity independent of Name/ring slot
	Name string
	Keys []ExtKey
}

// Engine drives recording and playback. It holds no terminal I/O of
// its own: Record appends keys the caller already read, and Play hands
// keys back to the caller one at a time via Next.
type Engine struct {
	State MacroState

	recording *Macro

	playing    *Macro
	playIndex  int
	playRepeat int // outer n-count: how many more full passes after this one
}

// NewEngine returns an idle macro engine.
func NewEngine() *Engine { return &Engine{} }

// StartRecord begins recording a new macro named name. Nested
// recording is rejected (spec: "Nested record is rejected").
func (e *Engine) StartRecord(name string) status.Status {
	if e.State == MacroRecording {
		return status.New(status.Failure, "already recording a macro")
	}
	if e.State == MacroPlaying {
		return status.New(status.Failure, "cannot record a macro while playing one")
	}
	e.State = MacroRecording
	e.recording = &Macro{ID: uuid.NewString(), Name: name}
	return status.OK
}

// Record appends a resolved key to the macro under construction. It
// is a no-op unless currently recording.
func (e *Engine) Record(k ExtKey) {
	if e.State != MacroRecording {
		return
	}
	e.recording.Keys = append(e.recording.Keys, k)
}

// StopRecord ends recording and returns the completed macro for the
// caller to push onto the macro ring, per "end-macro command ...
// Stopped (with save-to-ring)".
func (e *Engine) StopRecord() (*Macro, status.Status) {
	if e.State != MacroRecording {
		return nil, status.New(status.Failure, "not recording a macro")
	}
	m := e.recording
	e.recording = nil
	e.State = MacroStopped
	return m, status.OK
}

// AbortRecord discards the macro under construction without saving it
// (the "any abort" transition back to Stopped).
func (e *Engine) AbortRecord() {
	e.recording = nil
	if e.State == MacroRecording {
		e.State = MacroStopped
	}
}

// Play begins playback of m, repeated n times. It is allowed while
// Stopped or already Playing; when already Playing, m replaces the
// macro under playback and the rest of the outer playback is dropped,
// not resumed. Play is refused while Recording, and StartRecord is
// refused while Playing.
func (e *Engine) Play(m *Macro, n int) status.Status {
	if e.State == MacroRecording {
		return status.New(status.Failure, "cannot play a macro while recording")
	}
	if n < 1 {
		n = 1
	}
	e.State = MacroPlaying
	e.playing = m
	e.playIndex = 0
	e.playRepeat = n - 1
	return status.OK
}

// Next returns the next key to dispatch from the macro under
// playback, and whether one was available. When the current pass is
// exhausted it either rewinds for another repeat or returns to
// Stopped.
func (e *Engine) Next() (ExtKey, bool) {
	if e.State != MacroPlaying {
		return 0, false
	}
	if e.playIndex >= len(e.playing.Keys) {
		if e.playRepeat <= 0 {
			e.State = MacroStopped
			e.playing = nil
			return 0, false
		}
		e.playRepeat--
		e.playIndex = 0
		if len(e.playing.Keys) == 0 {
			e.State = MacroStopped
			e.playing = nil
			return 0, false
		}
	}
	k := e.playing.Keys[e.playIndex]
	e.playIndex++
	return k, true
}

// macroDelim is the separator used by Encode/Decode. It must not
// appear in the macro's name or in any key literal it contains; \x01
// satisfies that for any literal produced by Format.
const macroDelim = "\x01"

// Encode renders m as a single ring-storable string:
// <delim><name><delim><key1><delim>...<delim><keyN>, matching spec
// §4.5's "stored in the ring as ..." format.
func Encode(m *Macro) string {
	var b strings.Builder
	b.WriteString(macroDelim)
	b.WriteString(m.Name)
	for _, k := range m.Keys {
		b.WriteString(macroDelim)
		b.WriteString(Format(k))
	}
	return b.String()
}

// Decode parses a string previously produced by Encode.
func Decode(s string) (*Macro, error) {
	if !strings.HasPrefix(s, macroDelim) {
		return nil, fmt.Errorf("macro encoding: missing leading delimiter")
	}
	parts := strings.Split(s[len(macroDelim):], macroDelim)
	if len(parts) == 0 {
		return nil, fmt.Errorf("macro encoding: empty")
	}
	m := &Macro{ID: uuid.NewString(), Name: parts[0]}
	for _, lit := range parts[1:] {
		k, err := Parse(lit)
		if err != nil {
			return nil, fmt.Errorf("macro encoding: %w", err)
		}
		m.Keys = append(m.Keys, k)
	}
	return m, nil
}
