package buffer

import (
	"testing"

	"mightemacs/internal/datum"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

func mkInt(i int64) datum.Datum { return datum.Int(i) }

func lineText(b *Buffer, id text.LineID) string {
	return string(b.Store().Bytes(id))
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	b := New("scratch")
	b.InsertBytes([]byte("hello"))
	start := b.Point
	if _, st := b.DeleteBackward(len("hello")); st.IsError() {
		t.Fatalf("DeleteBackward: %v", st)
	}
	if b.Point.Offset != 0 || lineText(b, b.Point.Line) != "" {
		t.Fatalf("round trip left buffer non-empty: %q at %v", lineText(b, b.Point.Line), b.Point)
	}
	_ = start
}

func TestKillLineThenYank(t *testing.T) {
	b := New("scratch")
	b.InsertBytes([]byte("hello"))
	b.InsertNewline()
	b.InsertBytes([]byte("world"))

	// point is now at end of "world"; move back to (line0, 5) and
	// delete to end of line 0 (kill-line semantics: delete to EOL, 5
	// bytes stay, nothing after "hello" on line0 so delete crosses to
	// pick up the newline join with "world" only if asked for more).
	b.Point = text.Point{Line: b.store.First(), Offset: 5}
	removed, st := b.DeleteForward(1) // delete just the newline, joining the lines
	if st.IsError() {
		t.Fatalf("DeleteForward: %v", st)
	}
	if string(removed) != "\n" {
		t.Fatalf("expected newline removed, got %q", removed)
	}
	if got := lineText(b, b.Point.Line); got != "helloworld" {
		t.Fatalf("after kill, line = %q, want %q", got, "helloworld")
	}

	b.Point = text.Point{Line: b.store.First(), Offset: 5}
	if st := b.InsertBytes([]byte("\n")); st.IsError() {
		t.Fatalf("yank (InsertBytes newline): %v", st)
	}
	if got := lineText(b, b.store.First()); got != "hello" {
		t.Fatalf("line0 after yank = %q, want %q", got, "hello")
	}
}

func TestReadOnlyRefusesMutation(t *testing.T) {
	b := New("scratch")
	b.Flags.ReadOnly = true
	if st := b.InsertBytes([]byte("x")); st.Code != status.Failure {
		t.Errorf("expected Failure inserting into read-only buffer, got %v", st.Code)
	}
}

func TestMarksSurviveInsertBeforeMark(t *testing.T) {
	b := New("scratch")
	b.InsertBytes([]byte("abcdef"))
	b.Point = text.Point{Line: b.store.First(), Offset: 3}
	b.SetMark("m")

	b.Point = text.Point{Line: b.store.First(), Offset: 0}
	b.InsertBytes([]byte("XY"))

	m := b.Mark("m")
	if m.Point.Offset != 5 {
		t.Errorf("mark did not shift with insertion before it: got offset %d, want 5", m.Point.Offset)
	}
}

func TestMarkMigratesOnSplit(t *testing.T) {
	b := New("scratch")
	b.InsertBytes([]byte("abcdef"))
	b.Point = text.Point{Line: b.store.First(), Offset: 4}
	b.SetMark("m")
	firstLine := b.store.First()

	b.Point = text.Point{Line: firstLine, Offset: 2}
	b.InsertNewline()

	m := b.Mark("m")
	if m.Point.Line == firstLine {
		t.Errorf("mark past split point should have migrated to new line")
	}
	if m.Point.Offset != 2 {
		t.Errorf("mark offset after split = %d, want 2", m.Point.Offset)
	}
}

func TestNarrowWiden(t *testing.T) {
	b := New("scratch")
	b.InsertBytes([]byte("L1"))
	b.InsertNewline()
	b.InsertBytes([]byte("L2"))
	b.InsertNewline()
	b.InsertBytes([]byte("L3"))

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	mid := b.store.Next(b.store.First())
	if st := b.Narrow(mid, mid); st.IsError() {
		t.Fatalf("Narrow: %v", st)
	}
	if b.LineCount() != 1 {
		t.Fatalf("narrowed line count = %d, want 1", b.LineCount())
	}
	if st := b.Widen(); st.IsError() {
		t.Fatalf("Widen: %v", st)
	}
	if b.LineCount() != 3 {
		t.Fatalf("widened line count = %d, want 3", b.LineCount())
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing("kill", 2)
	r.Insert(mkInt(1))
	r.Insert(mkInt(2))
	r.Insert(mkInt(3))
	if r.Len() != 2 {
		t.Fatalf("ring grew past cap: %d", r.Len())
	}
	head, _ := r.Head()
	if head.Int() != 3 {
		t.Errorf("head = %d, want 3", head.Int())
	}
	oldest, _ := r.At(1)
	if oldest.Int() != 2 {
		t.Errorf("oldest retained = %d, want 2 (1 should have been evicted)", oldest.Int())
	}
}
