package script

import (
	"fmt"

	"mightemacs/internal/datum"
	"mightemacs/internal/regex"
	"mightemacs/internal/session"
)

// lvKind is what an expression's lvalue attaches to, so assignment
// operators know where to write back.
type lvKind int

const (
	lvNone lvKind = iota
	lvGlobalOrLocal
	lvSysVar
	lvIndex
)

type lvalue struct {
	kind lvKind
	name string
	arr  *datum.Array
	idx  int
}

// result pairs a value with how (if at all) it can be assigned to.
type result struct {
	val datum.Datum
	lv  lvalue
}

// Evaluator parses and evaluates one expression at a time against a
// Scope, following the precedence-climbing structure of spec §4.6
// ("Precedence-climbing over the operator table").
type Evaluator struct {
	lex *Lexer
	tok Token
	sc  *Scope

	// Cmds and Sess let a call expression (identifier immediately
	// followed by '(') invoke a registered command from within an
	// expression, the way the source's script engine calls commands as
	// ordinary function-like terms (spec §9 "Script dispatch").
	Cmds   *Table
	Sess   *session.Session
	N      int
	HasN   bool
	Frames *FrameStack

	// Match is $Match: the last regex-match operator's matched text,
	// and MatchGroups its captured groups (spec: "regex-match sets the
	// global $Match and match-group state").
	Match       string
	MatchGroups map[string]string
}

// NewEvaluator returns an Evaluator reading from src against sc, able
// to invoke commands registered in cmds against sess.
func NewEvaluator(src string, sc *Scope, cmds *Table, sess *session.Session) (*Evaluator, error) {
	e := &Evaluator{lex: NewLexer(src), sc: sc, Cmds: cmds, Sess: sess}
	return e, e.advance()
}

func (e *Evaluator) advance() error {
	t, err := e.lex.Next()
	if err != nil {
		return err
	}
	e.tok = t
	return nil
}

// Eval parses and evaluates one full expression, requiring the token
// stream be exhausted afterward.
func (e *Evaluator) Eval() (datum.Datum, error) {
	r, err := e.parseAssign()
	if err != nil {
		return datum.Datum{}, err
	}
	if e.tok.Kind != TokEOF {
		return datum.Datum{}, fmt.Errorf("script: unexpected trailing token %q", e.tok.Text)
	}
	return r.val, nil
}

var assignOps = map[string]string{
	"=": "", "+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
	"&=": "&", "|=": "|", "^=": "^", "<<=": "<<", ">>=": ">>",
}

func (e *Evaluator) parseAssign() (result, error) {
	left, err := e.parseTernary()
	if err != nil {
		return result{}, err
	}
	if e.tok.Kind == TokOp {
		if base, ok := assignOps[e.tok.Text]; ok {
			if left.lv.kind == lvNone {
				return result{}, fmt.Errorf("script: left side of %q is not assignable", e.tok.Text)
			}
			if err := e.advance(); err != nil {
				return result{}, err
			}
			rhs, err := e.parseAssign()
			if err != nil {
				return result{}, err
			}
			val := rhs.val
			if base != "" {
				val, err = applyBinary(base, left.val, rhs.val)
				if err != nil {
					return result{}, err
				}
			}
			if err := e.assign(left.lv, val); err != nil {
				return result{}, err
			}
			return result{val: val}, nil
		}
	}
	return left, nil
}

func (e *Evaluator) assign(lv lvalue, val datum.Datum) error {
	switch lv.kind {
	case lvGlobalOrLocal:
		e.sc.SetVar(lv.name, val)
		return nil
	case lvSysVar:
		return e.sc.SetSysVar(lv.name, val)
	case lvIndex:
		if lv.idx < 0 || lv.idx >= len(lv.arr.Items) {
			return fmt.Errorf("script: array index %d out of range", lv.idx)
		}
		lv.arr.Items[lv.idx] = val
		return nil
	}
	return fmt.Errorf("script: not assignable")
}

func (e *Evaluator) parseTernary() (result, error) {
	cond, err := e.parseLogicalOr()
	if err != nil {
		return result{}, err
	}
	if e.tok.Kind == TokQuestion {
		if err := e.advance(); err != nil {
			return result{}, err
		}
		thenR, err := e.parseAssign()
		if err != nil {
			return result{}, err
		}
		if e.tok.Kind != TokColon {
			return result{}, fmt.Errorf("script: expected ':' in ternary expression")
		}
		if err := e.advance(); err != nil {
			return result{}, err
		}
		elseR, err := e.parseAssign()
		if err != nil {
			return result{}, err
		}
		if cond.val.IsTrue() {
			return result{val: thenR.val}, nil
		}
		return result{val: elseR.val}, nil
	}
	return cond, nil
}

// binaryLevel describes one precedence tier: the operator texts it
// recognises and the next-tighter parse function to call for operands.
type binaryLevel struct {
	ops  []string
	next func(*Evaluator) (result, error)
}

func (e *Evaluator) parseLogicalOr() (result, error)  { return e.parseBinary(levelOr) }
func (e *Evaluator) parseLogicalAnd() (result, error) { return e.parseBinary(levelAnd) }
func (e *Evaluator) parseRegexMatch() (result, error) { return e.parseBinary(levelRegex) }
func (e *Evaluator) parseEquality() (result, error)   { return e.parseBinary(levelEq) }
func (e *Evaluator) parseRelational() (result, error) { return e.parseBinary(levelRel) }
func (e *Evaluator) parseBitOr() (result, error)      { return e.parseBinary(levelBitOr) }
func (e *Evaluator) parseBitXor() (result, error)     { return e.parseBinary(levelBitXor) }
func (e *Evaluator) parseBitAnd() (result, error)     { return e.parseBinary(levelBitAnd) }
func (e *Evaluator) parseShift() (result, error)      { return e.parseBinary(levelShift) }
func (e *Evaluator) parseAdditive() (result, error)   { return e.parseBinary(levelAdd) }
func (e *Evaluator) parseMultiplicative() (result, error) {
	return e.parseBinary(levelMul)
}

// levels chains tightest-to-loosest; each level's `next` points at the
// next tighter level, bottoming out at parseUnary.
var (
	levelMul   = binaryLevel{[]string{"*", "/", "%"}, (*Evaluator).parseUnary}
	levelAdd   = binaryLevel{[]string{"+", "-"}, (*Evaluator).parseMultiplicative}
	levelShift = binaryLevel{[]string{"<<", ">>"}, (*Evaluator).parseAdditive}
	levelBitAnd = binaryLevel{[]string{"&"}, (*Evaluator).parseShift}
	levelBitXor = binaryLevel{[]string{"^"}, (*Evaluator).parseBitAnd}
	levelBitOr  = binaryLevel{[]string{"|"}, (*Evaluator).parseBitXor}
	levelRel   = binaryLevel{[]string{"<", "<=", ">", ">="}, (*Evaluator).parseBitOr}
	levelEq    = binaryLevel{[]string{"==", "!="}, (*Evaluator).parseRelational}
	levelRegex = binaryLevel{[]string{"=~", "!~"}, (*Evaluator).parseEquality}
	levelAnd   = binaryLevel{[]string{"&&"}, (*Evaluator).parseRegexMatch}
	levelOr    = binaryLevel{[]string{"||"}, (*Evaluator).parseLogicalAnd}
)

func (e *Evaluator) parseBinary(lvl binaryLevel) (result, error) {
	left, err := lvl.next(e)
	if err != nil {
		return result{}, err
	}
	for e.tok.Kind == TokOp && contains(lvl.ops, e.tok.Text) {
		op := e.tok.Text
		if err := e.advance(); err != nil {
			return result{}, err
		}
		right, err := lvl.next(e)
		if err != nil {
			return result{}, err
		}
		var val datum.Datum
		switch op {
		case "&&":
			val = datum.Bool(left.val.IsTrue() && right.val.IsTrue())
		case "||":
			val = datum.Bool(left.val.IsTrue() || right.val.IsTrue())
		case "=~", "!~":
			val, err = e.applyRegexMatch(op, left.val, right.val)
		default:
			val, err = applyBinary(op, left.val, right.val)
		}
		if err != nil {
			return result{}, err
		}
		left = result{val: val}
	}
	return left, nil
}

// positionalArgNum reports whether name is a bare single digit "0".."9",
// the $0..$9 call-argument form.
func positionalArgNum(name string) (int, bool) {
	if len(name) != 1 || name[0] < '0' || name[0] > '9' {
		return 0, false
	}
	return int(name[0] - '0'), true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (e *Evaluator) applyRegexMatch(op string, subject, pattern datum.Datum) (datum.Datum, error) {
	p, err := regex.Compile(pattern.ToString(false), false)
	if err != nil {
		return datum.Datum{}, err
	}
	m, ok, st := p.SearchForward(subject.ToString(false), 0)
	if st.IsError() {
		return datum.Datum{}, fmt.Errorf("%s", st.Error())
	}
	if ok {
		e.Match = m.Text
		e.MatchGroups = m.Groups
	}
	matched := ok
	if op == "!~" {
		matched = !ok
	}
	return datum.Bool(matched), nil
}

// applyBinary evaluates a non-short-circuiting binary operator,
// coercing operands per spec §4.6: arithmetic promotes to real if
// either side is real, '&' concatenates when either side is a string
// and otherwise is bitwise AND on integers (spec: "concatenation is &,
// not +" — the overload is on operand kind, matching how every other
// operator here already branches on numeric vs. string operands).
func applyBinary(op string, a, b datum.Datum) (datum.Datum, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return arith(op, a, b)
	case "&":
		if a.Kind() == datum.KindString || b.Kind() == datum.KindString {
			return datum.String(a.ToString(false) + b.ToString(false)), nil
		}
		ai, _ := a.CoerceInt()
		bi, _ := b.CoerceInt()
		return datum.Int(ai & bi), nil
	case "|":
		ai, _ := a.CoerceInt()
		bi, _ := b.CoerceInt()
		return datum.Int(ai | bi), nil
	case "^":
		ai, _ := a.CoerceInt()
		bi, _ := b.CoerceInt()
		return datum.Int(ai ^ bi), nil
	case "<<":
		ai, _ := a.CoerceInt()
		bi, _ := b.CoerceInt()
		return datum.Int(ai << uint(bi)), nil
	case ">>":
		ai, _ := a.CoerceInt()
		bi, _ := b.CoerceInt()
		return datum.Int(ai >> uint(bi)), nil
	case "==":
		return datum.Bool(datum.Equal(a, b)), nil
	case "!=":
		return datum.Bool(!datum.Equal(a, b)), nil
	case "<", "<=", ">", ">=":
		return compare(op, a, b)
	}
	return datum.Datum{}, fmt.Errorf("script: unsupported operator %q", op)
}

func arith(op string, a, b datum.Datum) (datum.Datum, error) {
	if a.Kind() == datum.KindReal || b.Kind() == datum.KindReal {
		af, ok1 := a.CoerceReal()
		bf, ok2 := b.CoerceReal()
		if !ok1 || !ok2 {
			return datum.Datum{}, fmt.Errorf("script: non-numeric operand to %q", op)
		}
		switch op {
		case "+":
			return datum.Real(af + bf), nil
		case "-":
			return datum.Real(af - bf), nil
		case "*":
			return datum.Real(af * bf), nil
		case "/":
			if bf == 0 {
				return datum.Datum{}, fmt.Errorf("script: division by zero")
			}
			return datum.Real(af / bf), nil
		}
	}
	ai, ok1 := a.CoerceInt()
	bi, ok2 := b.CoerceInt()
	if !ok1 || !ok2 {
		return datum.Datum{}, fmt.Errorf("script: non-numeric operand to %q", op)
	}
	switch op {
	case "+":
		return datum.Int(ai + bi), nil
	case "-":
		return datum.Int(ai - bi), nil
	case "*":
		return datum.Int(ai * bi), nil
	case "/":
		if bi == 0 {
			return datum.Datum{}, fmt.Errorf("script: division by zero")
		}
		return datum.Int(ai / bi), nil
	case "%":
		if bi == 0 {
			return datum.Datum{}, fmt.Errorf("script: division by zero")
		}
		return datum.Int(ai % bi), nil
	}
	return datum.Datum{}, fmt.Errorf("script: unreachable")
}

func compare(op string, a, b datum.Datum) (datum.Datum, error) {
	if a.Kind() == datum.KindString && b.Kind() == datum.KindString {
		sa, sb := a.Str(), b.Str()
		switch op {
		case "<":
			return datum.Bool(sa < sb), nil
		case "<=":
			return datum.Bool(sa <= sb), nil
		case ">":
			return datum.Bool(sa > sb), nil
		case ">=":
			return datum.Bool(sa >= sb), nil
		}
	}
	af, ok1 := a.CoerceReal()
	bf, ok2 := b.CoerceReal()
	if !ok1 || !ok2 {
		return datum.Datum{}, fmt.Errorf("script: non-comparable operands to %q", op)
	}
	switch op {
	case "<":
		return datum.Bool(af < bf), nil
	case "<=":
		return datum.Bool(af <= bf), nil
	case ">":
		return datum.Bool(af > bf), nil
	case ">=":
		return datum.Bool(af >= bf), nil
	}
	return datum.Datum{}, fmt.Errorf("script: unreachable")
}

func (e *Evaluator) parseUnary() (result, error) {
	if e.tok.Kind == TokOp && (e.tok.Text == "-" || e.tok.Text == "+" || e.tok.Text == "!" || e.tok.Text == "~") {
		op := e.tok.Text
		if err := e.advance(); err != nil {
			return result{}, err
		}
		operand, err := e.parseUnary()
		if err != nil {
			return result{}, err
		}
		switch op {
		case "-":
			if operand.val.Kind() == datum.KindReal {
				return result{val: datum.Real(-operand.val.Real())}, nil
			}
			n, _ := operand.val.CoerceInt()
			return result{val: datum.Int(-n)}, nil
		case "+":
			return result{val: operand.val}, nil
		case "!":
			return result{val: datum.Bool(!operand.val.IsTrue())}, nil
		case "~":
			n, _ := operand.val.CoerceInt()
			return result{val: datum.Int(^n)}, nil
		}
	}
	if e.tok.Kind == TokOp && (e.tok.Text == "++" || e.tok.Text == "--") {
		op := e.tok.Text
		if err := e.advance(); err != nil {
			return result{}, err
		}
		operand, err := e.parseUnary()
		if err != nil {
			return result{}, err
		}
		if operand.lv.kind == lvNone {
			return result{}, fmt.Errorf("script: operand of prefix %q is not assignable", op)
		}
		delta := int64(1)
		if op == "--" {
			delta = -1
		}
		n, _ := operand.val.CoerceInt()
		newVal := datum.Int(n + delta)
		if err := e.assign(operand.lv, newVal); err != nil {
			return result{}, err
		}
		return result{val: newVal, lv: operand.lv}, nil
	}
	return e.parsePostfix()
}

func (e *Evaluator) parsePostfix() (result, error) {
	r, err := e.parsePrimary()
	if err != nil {
		return result{}, err
	}
	for {
		switch {
		case e.tok.Kind == TokLBracket:
			if err := e.advance(); err != nil {
				return result{}, err
			}
			idxR, err := e.parseAssign()
			if err != nil {
				return result{}, err
			}
			if e.tok.Kind != TokRBracket {
				return result{}, fmt.Errorf("script: expected ']'")
			}
			if err := e.advance(); err != nil {
				return result{}, err
			}
			if r.val.Kind() != datum.KindArray {
				return result{}, fmt.Errorf("script: subscript on non-array value")
			}
			idx, _ := idxR.val.CoerceInt()
			arr := r.val.Array()
			if idx < 0 || int(idx) >= len(arr.Items) {
				return result{}, fmt.Errorf("script: array index %d out of range", idx)
			}
			r = result{val: arr.Items[idx], lv: lvalue{kind: lvIndex, arr: arr, idx: int(idx)}}
		case e.tok.Kind == TokOp && (e.tok.Text == "++" || e.tok.Text == "--"):
			op := e.tok.Text
			if r.lv.kind == lvNone {
				return result{}, fmt.Errorf("script: operand of postfix %q is not assignable", op)
			}
			if err := e.advance(); err != nil {
				return result{}, err
			}
			delta := int64(1)
			if op == "--" {
				delta = -1
			}
			old := r.val
			n, _ := old.CoerceInt()
			if err := e.assign(r.lv, datum.Int(n+delta)); err != nil {
				return result{}, err
			}
			r = result{val: old}
		default:
			return r, nil
		}
	}
}

// parseCall parses a call expression's argument list, name( already
// having been consumed up to and including name, and invokes it
// through the shared command table.
func (e *Evaluator) parseCall(name string) (result, error) {
	if err := e.advance(); err != nil { // consume '('
		return result{}, err
	}
	var args []datum.Datum
	for e.tok.Kind != TokRParen {
		r, err := e.parseAssign()
		if err != nil {
			return result{}, err
		}
		args = append(args, r.val)
		if e.tok.Kind == TokComma {
			if err := e.advance(); err != nil {
				return result{}, err
			}
		}
	}
	if err := e.advance(); err != nil { // consume ')'
		return result{}, err
	}
	if e.Cmds == nil {
		return result{}, fmt.Errorf("script: no command table bound, cannot call %q", name)
	}
	val, st := e.Cmds.Call(e.Sess, name, e.N, e.HasN, args)
	if st.IsError() {
		return result{}, fmt.Errorf("%s", st.Error())
	}
	return result{val: val}, nil
}

func (e *Evaluator) parsePrimary() (result, error) {
	switch e.tok.Kind {
	case TokNumber:
		tok := e.tok
		if err := e.advance(); err != nil {
			return result{}, err
		}
		if tok.IsInt {
			return result{val: datum.Int(tok.IntVal)}, nil
		}
		return result{val: datum.Real(tok.Num)}, nil

	case TokString:
		tok := e.tok
		if err := e.advance(); err != nil {
			return result{}, err
		}
		return result{val: datum.String(tok.Text)}, nil

	case TokIdent:
		tok := e.tok
		if err := e.advance(); err != nil {
			return result{}, err
		}
		switch tok.Text {
		case "true":
			return result{val: datum.Bool(true)}, nil
		case "false":
			return result{val: datum.Bool(false)}, nil
		case "nil":
			return result{val: datum.Nil()}, nil
		}
		if e.tok.Kind == TokLParen {
			return e.parseCall(tok.Text)
		}
		return result{}, fmt.Errorf("script: undefined identifier %q", tok.Text)

	case TokGlobal:
		name := e.tok.Text
		if err := e.advance(); err != nil {
			return result{}, err
		}
		if n, ok := positionalArgNum(name); ok && e.Frames != nil && e.Frames.Current() != nil {
			// $0..$9 resolve against the active call frame's n-prefix
			// and argument array (spec §3 "Script run frame"), not the
			// generic variable table; they are not assignable.
			return result{val: e.Frames.Arg(n)}, nil
		}
		return result{val: e.sc.GetVar(name), lv: lvalue{kind: lvGlobalOrLocal, name: name}}, nil

	case TokSysVar:
		name := e.tok.Text
		if err := e.advance(); err != nil {
			return result{}, err
		}
		val, err := e.sc.GetSysVar(name)
		if err != nil {
			return result{}, err
		}
		return result{val: val, lv: lvalue{kind: lvSysVar, name: name}}, nil

	case TokLParen:
		if err := e.advance(); err != nil {
			return result{}, err
		}
		r, err := e.parseAssign()
		if err != nil {
			return result{}, err
		}
		if e.tok.Kind != TokRParen {
			return result{}, fmt.Errorf("script: expected ')'")
		}
		if err := e.advance(); err != nil {
			return result{}, err
		}
		return result{val: r.val}, nil

	case TokLBracket:
		if err := e.advance(); err != nil {
			return result{}, err
		}
		var items []datum.Datum
		for e.tok.Kind != TokRBracket {
			r, err := e.parseAssign()
			if err != nil {
				return result{}, err
			}
			items = append(items, r.val)
			if e.tok.Kind == TokComma {
				if err := e.advance(); err != nil {
					return result{}, err
				}
			}
		}
		if err := e.advance(); err != nil { // consume ']'
			return result{}, err
		}
		return result{val: datum.NewArray(items...)}, nil
	}
	return result{}, fmt.Errorf("script: unexpected token %q", e.tok.Text)
}
