package display

import (
	"strconv"
	"strings"

	"mightemacs/internal/status"
)

// flush diffs the back grid against the front grid and writes only
// the changed cells, then positions the cursor (spec §4.7 Phase 7).
// Grounded on teacher tui/screen.go's renderUnlocked: track whether a
// style escape is already active and only re-emit it when the style
// actually changes, and reuse one growable buffer for the move-cursor
// escape instead of fmt.Fprintf.
func (d *Display) flush() status.Status {
	var b strings.Builder
	var lastStyle Style
	styleActive := false
	lastRow, lastCol := -1, -1

	for row := 0; row < d.Back.Rows; row++ {
		for col := 0; col < d.Back.Cols; col++ {
			back := d.Back.Get(row, col)
			if back == d.Front.Get(row, col) {
				continue
			}
			if row != lastRow || col != lastCol {
				writeCursorPos(&b, row, col)
			}
			if !styleActive || back.Style != lastStyle {
				b.WriteString(back.Style.ansiCodes())
				lastStyle = back.Style
				styleActive = true
			}
			b.WriteRune(back.Ch)
			d.Front.Set(row, col, back)
			lastRow, lastCol = row, col+1
		}
	}
	if styleActive {
		b.WriteString("\x1b[0m")
	}
	writeCursorPos(&b, d.cursorRow, d.cursorCol)

	if b.Len() == 0 {
		return status.OK
	}
	if _, err := d.w.Write([]byte(b.String())); err != nil {
		return status.New(status.OSError, "display: flush: %v", err)
	}
	return status.OK
}

func writeCursorPos(b *strings.Builder, row, col int) {
	b.WriteString("\x1b[")
	b.WriteString(strconv.Itoa(row + 1))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col + 1))
	b.WriteByte('H')
}
