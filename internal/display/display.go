package display

import (
	"strconv"
	"strings"

	"mightemacs/internal/session"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
	"mightemacs/internal/window"
)

// LineFlag is one physical screen row's entry in the virtual screen's
// line flag table (spec §4.7 Phase 2).
type LineFlag uint8

const (
	VFExt   LineFlag = 1 << iota // row is horizontally shifted off the left edge
	VFPoint                      // row is some window's current point line
)

// Writer is the minimal terminal output sink redisplay flushes its
// diff to. *term.Terminal satisfies it; tests use a bytes.Buffer.
type Writer interface {
	Write(b []byte) (int, error)
}

// Display owns the virtual screen: a front (last flushed) and back
// (about to be flushed) Grid, diffed cell by cell on Flush, plus the
// per-row line flag table Phase 2/4 use to track horizontal-shift and
// point-row state across cycles (teacher tui/screen.go's Front/Back
// Buffer pair, generalized to track line flags alongside cells).
type Display struct {
	Front, Back *Grid

	lineFlags     []LineFlag
	prevLineFlags []LineFlag

	HardTabSize int
	MsgLine     string

	ProgramName    string
	ProgramVersion string

	w          Writer
	rows, cols int

	cursorRow, cursorCol int
}

// New returns a Display sized rows x cols (rows includes the message
// line, tracked separately from the line flag table per spec §4.7
// Phase 7: "Message-line content is rendered in a separate single-row
// window not tracked by the line flag table").
func New(w Writer, rows, cols int) *Display {
	bodyRows := rows - 1
	if bodyRows < 0 {
		bodyRows = 0
	}
	return &Display{
		Front:          NewGrid(rows, cols),
		Back:           NewGrid(rows, cols),
		lineFlags:      make([]LineFlag, bodyRows),
		prevLineFlags:  make([]LineFlag, bodyRows),
		HardTabSize:    8,
		ProgramName:    "mightemacs",
		ProgramVersion: "1.0",
		w:              w,
		rows:           rows,
		cols:           cols,
	}
}

// Resize changes the terminal geometry, rescaling every screen's
// window row-bands proportionally (spec §4.7 Phase 1: "geometry ...
// reconciliation").
func (d *Display) Resize(sess *session.Session, rows, cols int) {
	if rows == d.rows && cols == d.cols {
		return
	}
	d.Front.Resize(rows, cols)
	d.Back.Resize(rows, cols)
	bodyRows := rows - 1
	if bodyRows < 0 {
		bodyRows = 0
	}
	d.lineFlags = make([]LineFlag, bodyRows)
	d.prevLineFlags = make([]LineFlag, bodyRows)
	d.rows, d.cols = rows, cols
	for _, scr := range sess.Screens {
		scr.ResizeTerminal(bodyRows, cols)
		scr.Walk(func(w *window.Window) bool {
			w.SetFlags(window.WFHard | window.WFMode)
			return true
		})
	}
}

// Redisplay runs phases 2-7 for the session's current screen and
// flushes the result to the terminal (spec §4.7). Phase 1 (geometry)
// is not run here; it is Resize, which the caller invokes when the
// terminal size changes.
func (d *Display) Redisplay(sess *session.Session) status.Status {
	scr := sess.Current

	// Phase 2: reframe + line-flag propagation.
	d.prevLineFlags, d.lineFlags = d.lineFlags, d.prevLineFlags
	for i := range d.lineFlags {
		d.lineFlags[i] = 0
	}
	scr.Walk(func(w *window.Window) bool {
		d.reframe(w, scr)
		d.markLineFlags(w, scr)
		return true
	})

	// Phase 3: line painting.
	scr.Walk(func(w *window.Window) bool {
		d.paintWindow(w, scr)
		return true
	})

	// Phase 4: dextend.
	d.dextend(scr)

	// Phase 5: cursor position.
	row, col := d.cursorPosition(scr)

	// Phase 6: mode-line painting.
	scr.Walk(func(w *window.Window) bool {
		if w.HasFlags(window.WFMode) {
			d.paintModeLine(w, scr, sess)
			w.ClearFlags(window.WFMode)
		}
		return true
	})
	d.paintMessageLine()

	scr.Walk(func(w *window.Window) bool {
		w.ClearFlags(window.WFEdit | window.WFHard | window.WFMove)
		return true
	})

	// Phase 7: flush.
	d.moveCursor(row, col)
	return d.flush()
}

// reframe runs the reframe algorithm of spec §4.3 on w if its point
// has moved off-screen or its reframe bit is set.
func (d *Display) reframe(w *window.Window, scr *window.Screen) {
	store := w.Buf.Store()
	row, found := lineRow(store, w.Face.TopLine.Line, w.Face.Point.Line, w.Rows)
	if !w.NeedsReframe(row) && found {
		return
	}

	target := -1
	if w.Face.NeedReframe {
		target = w.Face.ReframeRow
	}
	if target < 0 {
		target = window.TargetRow(w.Rows, scr.VertJumpPct)
	}
	newTop := walkLines(store, w.Face.Point.Line, target, false)
	w.Face.TopLine = text.Point{Line: newTop, Offset: 0}
	w.ClearReframe()
	w.SetFlags(window.WFHard)
}

// markLineFlags sets VFPoint for w's current point row and VFExt for
// every row of w when its active horizontal scroll is non-zero (spec
// §4.7 Phase 2).
func (d *Display) markLineFlags(w *window.Window, scr *window.Screen) {
	store := w.Buf.Store()
	pointRow, found := lineRow(store, w.Face.TopLine.Line, w.Face.Point.Line, w.Rows)
	shifted := scr.FirstCol(w) > 0
	for i := 0; i < w.Rows; i++ {
		absRow := w.TopRow + i
		if absRow < 0 || absRow >= len(d.lineFlags) {
			continue
		}
		if found && i == pointRow {
			d.lineFlags[absRow] |= VFPoint
		}
		if shifted {
			d.lineFlags[absRow] |= VFExt
		}
	}
}

// paintWindow repaints w's dirty rows into the back grid (spec §4.7
// Phase 3).
func (d *Display) paintWindow(w *window.Window, scr *window.Screen) {
	if !w.HasFlags(window.WFHard | window.WFEdit) {
		return
	}
	store := w.Buf.Store()
	firstCol := scr.FirstCol(w)
	pointRow, pointFound := lineRow(store, w.Face.TopLine.Line, w.Face.Point.Line, w.Rows)

	highlight := w.Buf.Flags.CommandBuf && !w.Buf.Flags.TermAttr

	line := w.Face.TopLine.Line
	valid := store.Valid(line)
	for i := 0; i < w.Rows; i++ {
		isPointRow := pointFound && i == pointRow
		if w.HasFlags(window.WFHard) || isPointRow {
			if highlight {
				d.paintHighlightedRow(w.TopRow+i, valid, store, line, firstCol)
			} else {
				d.paintRow(w.TopRow+i, valid, store, line, firstCol, w.Buf.Flags.TermAttr && !isPointRow)
			}
		}
		if valid {
			line = store.Next(line)
			valid = store.Valid(line)
		}
	}
}

// paintHighlightedRow renders one line of an "@"-prefixed command
// buffer through Highlight, tinting tokens instead of running the
// plain or attribute-escape renderer (spec's command/script buffers
// are the only kind a syntax tinter is useful for).
func (d *Display) paintHighlightedRow(absRow int, haveLine bool, store *text.Store, line text.LineID, firstCol int) {
	if absRow < 0 || absRow >= d.Back.Rows {
		return
	}
	d.Back.ClearRow(absRow, 0)
	if !haveLine {
		return
	}
	raw := store.Bytes(line)
	var st []Style
	for _, span := range Highlight(string(raw), "") {
		for range span.Text {
			st = append(st, span.Style)
		}
	}
	cells := make([]Cell, 0, len(raw))
	for i, b := range raw {
		base := Style{}
		if i < len(st) {
			base = st[i]
		}
		switch {
		case b == '\t':
			next := ((len(cells) / d.HardTabSize) + 1) * d.HardTabSize
			for len(cells) < next {
				cells = append(cells, Cell{Ch: ' ', Style: base})
			}
		case b < 0x20 || b == 0x7f:
			cells = append(cells, Cell{Ch: '^', Style: base}, Cell{Ch: rune(b ^ 0x40), Style: base})
		default:
			cells = append(cells, Cell{Ch: rune(b), Style: base})
		}
	}
	for col := 0; col+firstCol < len(cells) && col < d.Back.Cols; col++ {
		d.Back.Set(absRow, col, cells[col+firstCol])
	}
	if firstCol > 0 {
		d.Back.Set(absRow, 0, Cell{Ch: lineExt})
	}
}

// paintRow renders one buffer line (or a blank past-EOF row) into the
// back grid at physical row absRow.
func (d *Display) paintRow(absRow int, haveLine bool, store *text.Store, line text.LineID, firstCol int, interpretAttrs bool) {
	if absRow < 0 || absRow >= d.Back.Rows {
		return
	}
	d.Back.ClearRow(absRow, 0)
	if !haveLine {
		return
	}
	cells := renderLine(store.Bytes(line), d.HardTabSize, interpretAttrs)
	for col := 0; col+firstCol < len(cells) && col < d.Back.Cols; col++ {
		d.Back.Set(absRow, col, cells[col+firstCol])
	}
	if firstCol > 0 {
		d.Back.Set(absRow, 0, Cell{Ch: lineExt})
	}
}

// lineExt is the glyph placed in column 0 of a horizontally-shifted
// row (spec §4.7 Phase 5: "Place a $ (LineExt) in column 0").
const lineExt = '$'

// renderLine expands one raw buffer line into display cells (spec
// §4.7 Phase 3): tabs expand to hardTabSize boundaries, bytes < 0x20
// or == 0x7F render as "^X", bytes >= 0x80 render as "<XX>" (hex,
// uppercase) -- unless interpretAttrs is set, in which case a '~'
// introduces an attribute escape (scanAttr) instead of being displayed
// literally, and ordinary bytes are painted with whatever style is
// active at that point in the line.
func renderLine(raw []byte, hardTabSize int, interpretAttrs bool) []Cell {
	var cells []Cell
	var st Style
	col := 0
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if interpretAttrs && b == attrSpecBegin {
			rest := []rune(string(raw[i+1:]))
			if len(rest) > 0 && rest[0] == attrSpecBegin {
				cells = append(cells, Cell{Ch: '~', Style: st})
				col++
				i++
				continue
			}
			newSt, n := scanAttr(st, rest)
			st = newSt
			i += n
			continue
		}
		switch {
		case b == '\t':
			next := ((col / hardTabSize) + 1) * hardTabSize
			for ; col < next; col++ {
				cells = append(cells, Cell{Ch: ' ', Style: st})
			}
		case b < 0x20 || b == 0x7f:
			cells = append(cells, Cell{Ch: '^', Style: st}, Cell{Ch: rune(b ^ 0x40), Style: st})
			col += 2
		case b >= 0x80:
			hex := strings.ToUpper(strconv.FormatInt(int64(b), 16))
			if len(hex) < 2 {
				hex = "0" + hex
			}
			cells = append(cells, Cell{Ch: '<', Style: st}, Cell{Ch: rune(hex[0]), Style: st}, Cell{Ch: rune(hex[1]), Style: st}, Cell{Ch: '>', Style: st})
			col += 4
		default:
			cells = append(cells, Cell{Ch: rune(b), Style: st})
			col++
		}
	}
	return cells
}

// dextend repaints, unshifted, every row that was VFExt or VFPoint
// last cycle but is neither this cycle (spec §4.7 Phase 4).
func (d *Display) dextend(scr *window.Screen) {
	scr.Walk(func(w *window.Window) bool {
		store := w.Buf.Store()
		line := w.Face.TopLine.Line
		valid := store.Valid(line)
		for i := 0; i < w.Rows; i++ {
			row := w.TopRow + i
			if row >= 0 && row < len(d.lineFlags) {
				was := d.prevLineFlags[row] & (VFExt | VFPoint)
				now := d.lineFlags[row] & (VFExt | VFPoint)
				if was != 0 && now == 0 {
					d.paintRow(row, valid, store, line, 0, w.Buf.Flags.TermAttr)
				}
			}
			if valid {
				line = store.Next(line)
				valid = store.Valid(line)
			}
		}
		return true
	})
}

// cursorPosition computes the physical (row, col) of the current
// window's point, applying horizontal scroll and tab expansion, and
// advances its firstCol for the next cycle if the point has scrolled
// off the visible band (spec §4.7 Phase 5).
func (d *Display) cursorPosition(scr *window.Screen) (int, int) {
	w := scr.Current()
	store := w.Buf.Store()
	pointRow, found := lineRow(store, w.Face.TopLine.Line, w.Face.Point.Line, w.Rows)
	if !found {
		pointRow = 0
	}

	firstCol := scr.FirstCol(w)
	visCol := visualColumn(store.Bytes(w.Face.Point.Line), w.Face.Point.Offset, d.HardTabSize)
	col := visCol - firstCol

	newFirst, moved := window.HorzReframe(firstCol, d.cols, visCol, scr.HorzJumpPct)
	if col < 0 || col >= d.cols-1 {
		if moved {
			scr.SetFirstCol(w, newFirst)
			w.SetFlags(window.WFHard)
		}
	}

	if col < 0 {
		col = 0
	}
	return w.TopRow + pointRow, col
}

// paintMessageLine renders the bottom-most row as the single-line
// status/echo area (spec §4.7 Phase 7 note: not tracked by the line
// flag table).
func (d *Display) paintMessageLine() {
	row := d.Back.Rows - 1
	d.Back.ClearRow(row, 0)
	for i, r := range []rune(d.MsgLine) {
		if i >= d.Back.Cols {
			break
		}
		d.Back.Set(row, i, Cell{Ch: r})
	}
}

func (d *Display) moveCursor(row, col int) {
	// stored only for Flush's escape emission; no separate state
	// needed since Flush always positions the cursor last.
	d.cursorRow, d.cursorCol = row, col
}

func lineRow(store *text.Store, top, target text.LineID, maxRows int) (int, bool) {
	id := top
	for i := 0; i < maxRows; i++ {
		if id == target {
			return i, true
		}
		if !store.Valid(id) {
			break
		}
		id = store.Next(id)
	}
	return 0, false
}

func walkLines(store *text.Store, from text.LineID, n int, forward bool) text.LineID {
	id := from
	for i := 0; i < n; i++ {
		var next text.LineID
		if forward {
			next = store.Next(id)
		} else {
			next = store.Prev(id)
		}
		if !store.Valid(next) {
			break
		}
		id = next
	}
	return id
}

// visualColumn returns the screen column byte offset off lands on
// within line, after tab expansion.
func visualColumn(line []byte, offset, hardTabSize int) int {
	col := 0
	for i := 0; i < offset && i < len(line); i++ {
		if line[i] == '\t' {
			col = ((col / hardTabSize) + 1) * hardTabSize
		} else {
			col++
		}
	}
	return col
}
