package display

import (
	"bytes"
	"testing"

	"mightemacs/internal/session"
)

func TestGridSetGetClip(t *testing.T) {
	g := NewGrid(3, 5)
	g.Set(1, 2, Cell{Ch: 'x'})
	if g.Get(1, 2).Ch != 'x' {
		t.Fatalf("Get(1,2) = %q, want 'x'", g.Get(1, 2).Ch)
	}
	g.Set(10, 10, Cell{Ch: 'y'}) // out of bounds, must not panic
	if g.Get(-1, 0).Ch != ' ' {
		t.Fatalf("out-of-bounds Get should return a blank cell")
	}
}

func TestGridResizePreservesOverlap(t *testing.T) {
	g := NewGrid(4, 4)
	g.Set(0, 0, Cell{Ch: 'a'})
	g.Resize(2, 2)
	if g.Get(0, 0).Ch != 'a' {
		t.Fatalf("Resize should preserve overlapping cells")
	}
	if g.Rows != 2 || g.Cols != 2 {
		t.Fatalf("Resize dims = %dx%d, want 2x2", g.Rows, g.Cols)
	}
}

func TestScanAttrBoldOnOff(t *testing.T) {
	st, n := scanAttr(Style{}, []rune("b"))
	if !st.Bold || n != 1 {
		t.Fatalf("scanAttr 'b' = %+v, %d, want Bold=true, n=1", st, n)
	}
	st, n = scanAttr(st, []rune("B"))
	if st.Bold || n != 1 {
		t.Fatalf("scanAttr 'B' = %+v, %d, want Bold=false, n=1", st, n)
	}
}

func TestScanAttrColorWithDigits(t *testing.T) {
	st, n := scanAttr(Style{}, []rune("3c"))
	if st.ColorPair != 3 || n != 2 {
		t.Fatalf("scanAttr '3c' = %+v, %d, want ColorPair=3, n=2", st, n)
	}
}

func TestScanAttrAllOff(t *testing.T) {
	st, n := scanAttr(Style{Bold: true, ColorPair: 2}, []rune("Z"))
	if st.Bold || st.ColorPair != 0 || n != 1 {
		t.Fatalf("scanAttr 'Z' = %+v, %d, want zero style, n=1", st, n)
	}
}

func TestScanAttrAltUnderline(t *testing.T) {
	st, n := scanAttr(Style{}, []rune("#u"))
	if !st.Underline || !st.AltUL || n != 2 {
		t.Fatalf("scanAttr '#u' = %+v, %d, want Underline+AltUL, n=2", st, n)
	}
}

func TestRenderLineExpandsTabs(t *testing.T) {
	cells := renderLine([]byte("a\tb"), 4, false)
	if len(cells) != 5 {
		t.Fatalf("got %d cells, want 5 (a + 3 spaces + b)", len(cells))
	}
	if cells[0].Ch != 'a' || cells[4].Ch != 'b' {
		t.Fatalf("unexpected cell runes: %+v", cells)
	}
}

func TestRenderLineControlAndHighByte(t *testing.T) {
	cells := renderLine([]byte{0x01, 0xff}, 8, false)
	want := []rune{'^', 'A', '<', 'F', 'F', '>'}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i, r := range want {
		if cells[i].Ch != r {
			t.Fatalf("cell %d = %q, want %q", i, cells[i].Ch, r)
		}
	}
}

func TestRenderLineInterpretsAttrEscapes(t *testing.T) {
	cells := renderLine([]byte("~bhi~B"), 8, true)
	if len(cells) != 2 || cells[0].Ch != 'h' || !cells[0].Style.Bold {
		t.Fatalf("got %+v, want bold 'h','i'", cells)
	}
	if cells[1].Ch != 'i' || !cells[1].Style.Bold {
		t.Fatalf("'i' precedes ~B and should still be bold, got %+v", cells[1])
	}
}

func TestRenderLineLiteralTilde(t *testing.T) {
	cells := renderLine([]byte("a~~b"), 8, true)
	if len(cells) != 3 || cells[1].Ch != '~' {
		t.Fatalf("got %+v, want a,~,b", cells)
	}
}

func TestRedisplayPaintsPointLine(t *testing.T) {
	sess := session.New(9, 40) // body rows; the Display reserves one more for the message line
	buf := sess.Current.Current().Buf
	buf.InsertBytes([]byte("hello"))

	var out bytes.Buffer
	d := New(&out, 10, 40)
	if st := d.Redisplay(sess); st.IsError() {
		t.Fatalf("Redisplay: %v", st)
	}
	if d.Back.Get(0, 0).Ch != 'h' {
		t.Fatalf("row 0 = %q, want 'h'", d.Back.Get(0, 0).Ch)
	}
	if out.Len() == 0 {
		t.Fatal("Redisplay should have flushed something to the writer")
	}
}

func TestRedisplayMarksModeLine(t *testing.T) {
	sess := session.New(9, 40)
	var out bytes.Buffer
	d := New(&out, 10, 40)
	if st := d.Redisplay(sess); st.IsError() {
		t.Fatalf("Redisplay: %v", st)
	}
	// the mode line sits on the row right after the (only) window's band
	w := sess.Current.Current()
	modeRow := w.TopRow + w.Rows
	found := false
	for c := 0; c < d.Back.Cols; c++ {
		if d.Back.Get(modeRow, c).Ch == '(' {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected mode line to contain a buffer-name delimiter at row %d", modeRow)
	}
}

func TestResizeRescalesWindows(t *testing.T) {
	sess := session.New(24, 80)
	var out bytes.Buffer
	d := New(&out, 24, 80)
	d.Resize(sess, 48, 80)
	if sess.Current.Rows != 47 { // body rows = terminal rows - message line
		t.Fatalf("screen rows after resize = %d, want 47", sess.Current.Rows)
	}
}
