package regex

import "testing"

func TestSearchForwardFindsMatch(t *testing.T) {
	p, err := Compile(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, ok, st := p.SearchForward("abc 123 def 456", 0)
	if st.IsError() || !ok {
		t.Fatalf("SearchForward: ok=%v st=%v", ok, st)
	}
	if m.Text != "123" {
		t.Fatalf("first match = %q, want 123", m.Text)
	}
}

func TestSearchBackwardFindsLastMatch(t *testing.T) {
	p, err := Compile(`[0-9]+`, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	s := "abc 123 def 456"
	m, ok, st := p.SearchBackward(s, len(s))
	if st.IsError() || !ok {
		t.Fatalf("SearchBackward: ok=%v st=%v", ok, st)
	}
	if m.Text != "456" {
		t.Fatalf("last match = %q, want 456", m.Text)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	p, err := Compile(`hello`, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, ok, st := p.SearchForward("HELLO world", 0)
	if st.IsError() || !ok {
		t.Fatalf("expected case-insensitive match: ok=%v st=%v", ok, st)
	}
}

func TestNoMatch(t *testing.T) {
	p, _ := Compile(`zzz`, false)
	_, ok, st := p.SearchForward("abc", 0)
	if st.IsError() {
		t.Fatalf("unexpected error: %v", st)
	}
	if ok {
		t.Fatal("expected no match")
	}
}
