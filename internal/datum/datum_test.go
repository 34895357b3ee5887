package datum

import "testing"

func TestArraySharesStorage(t *testing.T) {
	a := NewArray(Int(1), Int(2))
	b := a // assignment shares the underlying Array per spec §3
	b.Array().Items[0] = Int(99)
	if a.Array().Items[0].Int() != 99 {
		t.Errorf("array assignment did not share storage")
	}
}

func TestDeepcopyIsIndependent(t *testing.T) {
	a := NewArray(Int(1), NewArray(Int(2)))
	b := a.Deepcopy()
	b.Array().Items[0] = Int(99)
	if a.Array().Items[0].Int() == 99 {
		t.Errorf("Deepcopy shared top-level storage")
	}
	b.Array().Items[1].Array().Items[0] = Int(100)
	if a.Array().Items[1].Array().Items[0].Int() == 100 {
		t.Errorf("Deepcopy shared nested storage")
	}
}

func TestSelfReferenceDetected(t *testing.T) {
	a := NewArray(Int(1))
	a.Array().Items = append(a.Array().Items, a)
	s := a.ToString(true)
	if got := s; got == "" {
		t.Fatalf("expected rendered string")
	}
	if !containsRecursionMarker(s) {
		t.Errorf("self-referential array not flagged: %q", s)
	}
}

func containsRecursionMarker(s string) bool {
	for i := 0; i+len("<endless recursion>") <= len(s); i++ {
		if s[i:i+len("<endless recursion>")] == "<endless recursion>" {
			return true
		}
	}
	return false
}

func TestStringFabForwardAndPrepend(t *testing.T) {
	f := Open()
	f.WriteString("cd")
	f.PrependByte('b')
	f.PrependByte('a')
	d, err := f.Close(CloseString)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if d.Str() != "abcd" {
		t.Errorf("got %q, want %q", d.Str(), "abcd")
	}
}

func TestStringFabRejectsNulForString(t *testing.T) {
	f := Open()
	f.WriteByte(0)
	if _, err := f.Close(CloseString); err == nil {
		t.Errorf("expected error closing NUL-containing string fab as string")
	}
}

func TestEqualNumericCrossKind(t *testing.T) {
	if !Equal(Int(3), Real(3.0)) {
		t.Errorf("expected int/real cross-kind equality")
	}
}

func TestIsTrue(t *testing.T) {
	cases := []struct {
		d    Datum
		want bool
	}{
		{Nil(), false},
		{Bool(false), false},
		{Int(0), false},
		{String(""), false},
		{Int(1), true},
		{String("x"), true},
		{NewArray(), true},
	}
	for _, c := range cases {
		if got := c.d.IsTrue(); got != c.want {
			t.Errorf("IsTrue(%v) = %v, want %v", c.d.Kind(), got, c.want)
		}
	}
}
