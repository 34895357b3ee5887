package key

import "testing"

func TestParseCtrlLetter(t *testing.T) {
	k, err := Parse("C-x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if k&Ctrl == 0 || k.Code() != 'X' {
		t.Fatalf("C-x -> %v, want Ctrl|X", k)
	}
}

func TestParseCaretAltForm(t *testing.T) {
	k, err := Parse("^G")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if k&Ctrl == 0 || k.Code() != 'G' {
		t.Fatalf("^G -> %v, want Ctrl|G", k)
	}
}

func TestParseKeyword(t *testing.T) {
	k, err := Parse("SPC")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if k != ExtKey(' ') {
		t.Fatalf("SPC -> %v, want %v", k, ExtKey(' '))
	}
}

func TestParseMetaCtrlCombo(t *testing.T) {
	k, err := Parse("M-C-s")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if k&Meta == 0 || k&Ctrl == 0 || k.Code() != 'S' {
		t.Fatalf("M-C-s -> %v", k)
	}
}

func TestParseRejectsDuplicatePrefix(t *testing.T) {
	if _, err := Parse("C-C-x"); err == nil {
		t.Fatal("expected error for duplicate C- prefix")
	}
}

func TestBindLookupRoundTrip(t *testing.T) {
	tbl := NewTable()
	k, _ := Parse("C-x")
	tbl.Bind(k, Target{Kind: TargetCommand, CommandName: "exit"})
	got, ok := tbl.Lookup(k)
	if !ok || got.CommandName != "exit" {
		t.Fatalf("Lookup after Bind = %v, %v", got, ok)
	}
	tbl.Unbind(k)
	if _, ok := tbl.Lookup(k); ok {
		t.Fatal("expected Unbind to clear the binding")
	}
}

func TestNumArgDefaultRepeat(t *testing.T) {
	var n NumArg
	n.Feed(TokenUniversal, 0)
	if consumed := n.Feed(TokenOther, 0); consumed {
		t.Fatal("non-numeric key should not be consumed")
	}
	if got := n.Resolved(); got != 4 {
		t.Fatalf("bare C-u resolves to %d, want 4", got)
	}
}

func TestNumArgExplicitDigits(t *testing.T) {
	var n NumArg
	n.Feed(TokenUniversal, 0)
	n.Feed(TokenMinus, 0)
	n.Feed(TokenDigit, 1)
	n.Feed(TokenDigit, 2)
	n.Feed(TokenOther, 0)
	if got := n.Resolved(); got != -12 {
		t.Fatalf("C-u - 1 2 resolves to %d, want -12", got)
	}
}

func TestMacroRecordPlayRoundTrip(t *testing.T) {
	e := NewEngine()
	if st := e.StartRecord("test"); st.IsError() {
		t.Fatalf("StartRecord: %v", st)
	}
	a, _ := Parse("C-x")
	b, _ := Parse("C-s")
	e.Record(a)
	e.Record(b)
	m, st := e.StopRecord()
	if st.IsError() {
		t.Fatalf("StopRecord: %v", st)
	}

	if st := e.Play(m, 2); st.IsError() {
		t.Fatalf("Play: %v", st)
	}
	var got []ExtKey
	for {
		k, ok := e.Next()
		if !ok {
			break
		}
		got = append(got, k)
	}
	if len(got) != 4 {
		t.Fatalf("playback produced %d keys, want 4 (2 keys x 2 reps)", len(got))
	}
	if e.State != MacroStopped {
		t.Fatalf("engine state after playback = %v, want Stopped", e.State)
	}
}

func TestMacroEncodeDecode(t *testing.T) {
	a, _ := Parse("C-x")
	b, _ := Parse("M-w")
	m := &Macro{Name: "foo", Keys: []ExtKey{a, b}}
	enc := Encode(m)
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Name != "foo" || len(dec.Keys) != 2 || dec.Keys[0] != a || dec.Keys[1] != b {
		t.Fatalf("round trip mismatch: %+v", dec)
	}
}
