package mode

import "testing"

func TestGroupMutualExclusion(t *testing.T) {
	tbl := NewTable()
	g := tbl.Group("G")
	a := &Spec{Name: "A", Group: g}
	b := &Spec{Name: "B", Group: g}
	if err := tbl.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Register(b); err != nil {
		t.Fatal(err)
	}

	buf := NewBufferModes()
	if _, st := tbl.Change("A", Set, buf); st.IsError() {
		t.Fatal(st)
	}
	if !buf.Enabled("A") || buf.Enabled("B") {
		t.Fatalf("expected A enabled, B disabled")
	}
	if _, st := tbl.Change("B", Set, buf); st.IsError() {
		t.Fatal(st)
	}
	if buf.Enabled("A") || !buf.Enabled("B") {
		t.Fatalf("expected B enabled, A automatically disabled")
	}
}

func TestSetNoopReportsPriorState(t *testing.T) {
	tbl := NewTable()
	spec := &Spec{Name: "ReadOnly"}
	tbl.Register(spec)
	buf := NewBufferModes()

	was, st := tbl.Change("ReadOnly", Set, buf)
	if st.IsError() || was {
		t.Fatalf("first Set: was=%v st=%v", was, st)
	}
	was, st = tbl.Change("ReadOnly", Set, buf)
	if st.IsError() || !was {
		t.Fatalf("second Set (no-op) should report prior state true: was=%v", was)
	}

	was, st = tbl.Change("ReadOnly", Clear, buf)
	if st.IsError() || !was {
		t.Fatalf("Clear should report prior state true: was=%v", was)
	}
	was, st = tbl.Change("ReadOnly", Clear, buf)
	if st.IsError() || was {
		t.Fatalf("Clear no-op should report prior state false: was=%v", was)
	}
}

func TestPrefixResolution(t *testing.T) {
	tbl := NewTable()
	tbl.Register(&Spec{Name: "autoSave"})
	tbl.Register(&Spec{Name: "autoIndent"})

	if _, st := tbl.Find("auto"); !st.IsError() {
		t.Errorf("expected ambiguous prefix to fail")
	}
	if _, st := tbl.Find("autoS"); st.IsError() {
		t.Errorf("expected unambiguous prefix to resolve: %v", st)
	}
}

func TestScopeMismatch(t *testing.T) {
	tbl := NewTable()
	tbl.Register(&Spec{Name: "horzScroll", Global: true})
	buf := NewBufferModes()
	if _, st := tbl.Change("horzScroll", Set, buf); !st.IsError() {
		t.Errorf("expected scope mismatch error for global mode with buffer target")
	}
}
