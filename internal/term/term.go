// Package term wraps the controlling terminal: raw mode, a blocking
// keystroke reader, and the SIGWINCH/SIGTSTP flags the single
// dispatch loop polls (spec §9 "Scheduling model": signals set flags
// checked at the top of the loop, they never pre-empt a command).
package term

import (
	"bufio"
	"os"

	"golang.org/x/term"

	"mightemacs/internal/key"
)

// Terminal is the process's controlling tty, switched to raw mode for
// the editor's lifetime.
type Terminal struct {
	in     *os.File
	out    *os.File
	reader *bufio.Reader
	saved  *term.State
}

// Open puts in/out into raw mode and returns a Terminal ready to read
// keystrokes and report size.
func Open(in, out *os.File) (*Terminal, error) {
	saved, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, err
	}
	return &Terminal{in: in, out: out, reader: bufio.NewReader(in), saved: saved}, nil
}

// Close restores the terminal's original mode.
func (t *Terminal) Close() error {
	if t.saved == nil {
		return nil
	}
	return term.Restore(int(t.in.Fd()), t.saved)
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(t.in.Fd()))
	return rows, cols, err
}

// Write sends raw bytes to the terminal (redisplay's diff writes).
func (t *Terminal) Write(b []byte) (int, error) { return t.out.Write(b) }

// Typeahead reports whether a keystroke is already buffered, without
// blocking to find out (spec §9 "A pending-input check (typahead) is
// used to decide whether redisplay is worth the cost"). It only sees
// bytes the OS has already delivered to our read buffer; it is not a
// guarantee that no key is available, only that one is not yet known
// to be.
func (t *Terminal) Typeahead() bool {
	return t.reader.Buffered() > 0
}

// ReadKey blocks for one decoded extended key (spec §9 "Only three
// operations block: reading a keystroke; ..."). Raw bytes are decoded
// the same way a vt100-family terminal reports them: an escape
// introduces either a bare Escape keypress or a CSI/SS3 sequence,
// anything else is a plain (possibly control) character.
func (t *Terminal) ReadKey() (key.ExtKey, error) {
	b, err := t.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == 0x1b {
		return t.readEscape()
	}
	return decodeByte(b), nil
}
