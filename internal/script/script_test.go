package script

import (
	"testing"

	"mightemacs/internal/datum"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
)

func TestLexerClassifiesVariableForms(t *testing.T) {
	l := NewLexer("$Bufname $count $0 $9")
	want := []TokenKind{TokSysVar, TokGlobal, TokGlobal, TokGlobal}
	for i, k := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Kind != k {
			t.Fatalf("token %d: kind = %v, want %v", i, tok.Kind, k)
		}
	}
}

func TestLexerOperatorLongestMatch(t *testing.T) {
	l := NewLexer("<<= << < <=")
	want := []string{"<<=", "<<", "<", "<="}
	for i, w := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Text != w {
			t.Fatalf("token %d: text = %q, want %q", i, tok.Text, w)
		}
	}
}

func newTestScope() *Scope {
	sc := NewScope()
	x := datum.Nil()
	sc.RegisterSysVar(&SysVar{
		Name: "Test",
		Get:  func() datum.Datum { return x },
		Set:  func(v datum.Datum) error { x = v; return nil },
	})
	return sc
}

func evalExpr(t *testing.T, src string, sc *Scope) datum.Datum {
	t.Helper()
	ev, err := NewEvaluator(src, sc, nil, nil)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	v, err := ev.Eval()
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	v := evalExpr(t, "2 + 3 * 4", newTestScope())
	if v.Int() != 14 {
		t.Fatalf("got %v, want 14", v.Int())
	}
}

func TestEvalStringConcatWithAmpersand(t *testing.T) {
	v := evalExpr(t, `"foo" & "bar"`, newTestScope())
	if v.Str() != "foobar" {
		t.Fatalf("got %q, want %q", v.Str(), "foobar")
	}
}

func TestEvalBitwiseAndOnIntegers(t *testing.T) {
	v := evalExpr(t, "6 & 3", newTestScope())
	if v.Int() != 2 {
		t.Fatalf("got %v, want 2", v.Int())
	}
}

func TestEvalTernary(t *testing.T) {
	v := evalExpr(t, "1 < 2 ? 10 : 20", newTestScope())
	if v.Int() != 10 {
		t.Fatalf("got %v, want 10", v.Int())
	}
}

func TestEvalAssignAndGlobalVar(t *testing.T) {
	sc := newTestScope()
	ev, err := NewEvaluator("$x = 5", sc, nil, nil)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	if _, err := ev.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if sc.GetVar("x").Int() != 5 {
		t.Fatalf("$x = %v, want 5", sc.GetVar("x").Int())
	}
}

func TestEvalSysVarReadWrite(t *testing.T) {
	sc := newTestScope()
	ev, err := NewEvaluator("$Test = 42", sc, nil, nil)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	if _, err := ev.Eval(); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	v, err := sc.GetSysVar("Test")
	if err != nil {
		t.Fatalf("GetSysVar: %v", err)
	}
	if v.Int() != 42 {
		t.Fatalf("$Test = %v, want 42", v.Int())
	}
}

func TestEvalArraySubscript(t *testing.T) {
	v := evalExpr(t, "[10, 20, 30][1]", newTestScope())
	if v.Int() != 20 {
		t.Fatalf("got %v, want 20", v.Int())
	}
}

func TestEvalPrefixAndPostfixIncrement(t *testing.T) {
	sc := newTestScope()
	sc.SetVar("x", datum.Int(5))
	v := evalExpr(t, "++$x", sc)
	if v.Int() != 6 || sc.GetVar("x").Int() != 6 {
		t.Fatalf("prefix ++ gave %v, var %v, want 6/6", v.Int(), sc.GetVar("x").Int())
	}
	v = evalExpr(t, "$x++", sc)
	if v.Int() != 6 || sc.GetVar("x").Int() != 7 {
		t.Fatalf("postfix ++ gave %v, var %v, want 6/7", v.Int(), sc.GetVar("x").Int())
	}
}

func runScript(t *testing.T, src string, sc *Scope) status.Status {
	t.Helper()
	ip, err := NewInterp(src, sc, nil, nil)
	if err != nil {
		t.Fatalf("NewInterp: %v", err)
	}
	return ip.Run()
}

func TestInterpLoopWithBreak(t *testing.T) {
	sc := NewScope()
	st := runScript(t, "let $x = 0; loop; $x = $x + 1; if $x == 5; break; endif; endloop", sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("x").Int() != 5 {
		t.Fatalf("$x = %v, want 5", sc.GetVar("x").Int())
	}
}

func TestInterpWhileLoop(t *testing.T) {
	sc := NewScope()
	st := runScript(t, "let $x = 0; while $x < 3; $x = $x + 1; endloop", sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("x").Int() != 3 {
		t.Fatalf("$x = %v, want 3", sc.GetVar("x").Int())
	}
}

func TestInterpUntilLoop(t *testing.T) {
	sc := NewScope()
	st := runScript(t, "let $x = 0; until $x == 3; $x = $x + 1; endloop", sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("x").Int() != 3 {
		t.Fatalf("$x = %v, want 3", sc.GetVar("x").Int())
	}
}

func TestInterpIfElsifElse(t *testing.T) {
	sc := NewScope()
	sc.SetVar("n", datum.Int(2))
	st := runScript(t, `if $n == 1; $r = "one"; elsif $n == 2; $r = "two"; else; $r = "other"; endif`, sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("r").Str() != "two" {
		t.Fatalf("$r = %q, want %q", sc.GetVar("r").Str(), "two")
	}
}

func TestInterpForLoopOverArray(t *testing.T) {
	sc := NewScope()
	st := runScript(t, "let $sum = 0; for $v in [1, 2, 3]; $sum = $sum + $v; endloop", sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("sum").Int() != 6 {
		t.Fatalf("$sum = %v, want 6", sc.GetVar("sum").Int())
	}
}

func TestInterpNestedLoopBreakLevel(t *testing.T) {
	sc := NewScope()
	st := runScript(t, `
		let $hits = 0;
		for $i in [1, 2];
			for $j in [1, 2];
				$hits = $hits + 1;
				if $j == 1;
					break 2;
				endif;
			endloop;
		endloop
	`, sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("hits").Int() != 1 {
		t.Fatalf("$hits = %v, want 1 (outer loop should be broken out of on first hit)", sc.GetVar("hits").Int())
	}
}

func TestInterpNextSkipsRestOfIteration(t *testing.T) {
	sc := NewScope()
	st := runScript(t, `
		let $sum = 0;
		for $v in [1, 2, 3, 4];
			if $v == 2;
				next;
			endif;
			$sum = $sum + $v;
		endloop
	`, sc)
	if st.IsError() {
		t.Fatalf("Run: %v", st)
	}
	if sc.GetVar("sum").Int() != 8 {
		t.Fatalf("$sum = %v, want 8 (1+3+4, skipping 2)", sc.GetVar("sum").Int())
	}
}

func TestInterpCallResolvesPositionalArgs(t *testing.T) {
	sc := NewScope()
	ip, err := NewInterp(`return $1 & "-" & $2`, sc, nil, nil)
	if err != nil {
		t.Fatalf("NewInterp: %v", err)
	}
	v, st := ip.Call("@greet", 3, []datum.Datum{datum.String("a"), datum.String("b")})
	if st.IsError() {
		t.Fatalf("Call: %v", st)
	}
	if v.Str() != "a-b" {
		t.Fatalf("got %q, want %q", v.Str(), "a-b")
	}
}

func TestEvalCallExpressionInvokesCommand(t *testing.T) {
	sc := newTestScope()
	sess := session.New(24, 80)
	cmds := NewTable()
	cmds.Register(&Command{
		Name:    "double",
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
			v, _ := args[0].CoerceInt()
			return datum.Int(v * 2), status.OK
		},
	})
	ev, err := NewEvaluator("double(21)", sc, cmds, sess)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	v, err := ev.Eval()
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v.Int() != 42 {
		t.Fatalf("got %v, want 42", v.Int())
	}
}
