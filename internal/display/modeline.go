package display

import (
	"fmt"
	"strings"

	"mightemacs/internal/key"
	"mightemacs/internal/session"
	"mightemacs/internal/window"
)

// longModeNameCols is the terminal width at or above which the mode
// line shows full mode names instead of abbreviations (spec §4.7
// Phase 6: "mode names (long form if terminal >= 96 cols, else
// short)").
const longModeNameCols = 96

// shortModeName abbreviates a mode name to its first four characters,
// the source's own convention for the narrow mode-line form; modes
// already four characters or shorter are shown in full either way.
func shortModeName(name string) string {
	r := []rune(name)
	if len(r) <= 4 {
		return name
	}
	return string(r[:4])
}

// paintModeLine rebuilds one window's mode line (spec §4.7 Phase 6).
func (d *Display) paintModeLine(w *window.Window, scr *window.Screen, sess *session.Session) {
	row := w.TopRow + w.Rows
	if row < 0 || row >= d.Back.Rows-1 {
		return
	}

	var b strings.Builder
	recStart, recEnd := -1, -1
	b.WriteByte('[')
	if w.Buf.Flags.Narrowed {
		b.WriteByte('<')
	} else {
		b.WriteByte('-')
	}
	if w.Buf.Flags.Changed {
		b.WriteByte('*')
	} else {
		b.WriteByte('-')
	}
	if w.Buf.Flags.ReadOnly {
		b.WriteByte('%')
	} else {
		b.WriteByte('-')
	}
	if scr.FirstCol(w) > 0 {
		b.WriteByte('<')
	} else {
		b.WriteByte('-')
	}
	b.WriteByte(']')

	if sess.Macro.State == key.MacroRecording {
		b.WriteByte(' ')
		recStart = len([]rune(b.String()))
		b.WriteString("*REC*")
		recEnd = len([]rune(b.String()))
	}

	b.WriteString(fmt.Sprintf(" %d", screenNumber(sess, scr)))

	line, col := pointLineCol(w)
	b.WriteString(fmt.Sprintf(" L%d C%d", line, col))

	b.WriteByte(' ')
	long := d.cols >= longModeNameCols
	names := w.Buf.Modes.Names()
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		if long {
			b.WriteString(name)
		} else {
			b.WriteString(shortModeName(name))
		}
	}

	b.WriteString(" (")
	b.WriteString(w.Buf.Name)
	b.WriteByte(')')

	if w.Buf.Filename != "" {
		b.WriteString(" ")
		b.WriteString(w.Buf.Filename)
	}
	if sess.Dir != "" && long {
		b.WriteString(" ")
		b.WriteString(sess.Dir)
	}

	if row == bottomWindowRow(scr) {
		b.WriteString(fmt.Sprintf(" %s %s", d.ProgramName, d.ProgramVersion))
	}

	text := []rune(b.String())
	d.Back.ClearRow(row, 0)
	for i, r := range text {
		if i >= d.Back.Cols {
			break
		}
		st := Style{Reverse: true}
		if i >= recStart && i < recEnd {
			st.Bold = true
		}
		d.Back.Set(row, i, Cell{Ch: r, Style: st})
	}
	for i := len(text); i < d.Back.Cols; i++ {
		d.Back.Set(row, i, Cell{Ch: ' ', Style: Style{Reverse: true}})
	}
}

// screenNumber returns scr's 1-based position among the session's
// screens.
func screenNumber(sess *session.Session, scr *window.Screen) int {
	for i, s := range sess.Screens {
		if s == scr {
			return i + 1
		}
	}
	return 0
}

// bottomWindowRow returns the mode-line row of scr's last window,
// where the program name/version is shown.
func bottomWindowRow(scr *window.Screen) int {
	row := -1
	scr.Walk(func(w *window.Window) bool {
		row = w.TopRow + w.Rows
		return true
	})
	return row
}

// pointLineCol returns w's point as a 1-based line number and 0-based
// column, for the mode line's "line/col indicator".
func pointLineCol(w *window.Window) (line, col int) {
	store := w.Buf.Store()
	id := store.First()
	line = 1
	for id != w.Face.Point.Line && store.Valid(id) {
		id = store.Next(id)
		line++
	}
	col = w.Face.Point.Offset
	return line, col
}
