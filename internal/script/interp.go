package script

import (
	"fmt"

	"mightemacs/internal/datum"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
)

// ctrlSignal is what a statement hands back up to the block that
// contains it: normal fallthrough, or one of the three control-flow
// escapes spec §4.6 names ("break (optionally with a level count),
// next, return").
type ctrlSignal int

const (
	ctrlNone ctrlSignal = iota
	ctrlBreak
	ctrlNext
	ctrlReturn
)

// execResult carries a ctrlSignal and its payload (break's remaining
// unwind count, return's value) out of a statement or block.
type execResult struct {
	sig        ctrlSignal
	breakLevel int
	ret        datum.Datum
}

// Interp is the statement-level script interpreter: it drives an
// Evaluator's token stream through the control-flow grammar of spec
// §4.6 ("if/elsif/else/endif, loop…endloop, while…endloop,
// until…endloop, for name in array…endloop, break, next, return").
// There is no separate AST: loop and conditional bodies are re-lexed
// from a saved source offset on each repetition, which is simple and
// matches the source's own single-pass recursive-descent interpreter
// rather than a compile-then-run design.
type Interp struct {
	*Evaluator

	Frames       FrameStack
	MaxCallDepth int

	// UserAbort polls the abort-key flag; every loop iteration checks
	// it (spec §9 "Cancellation... every tight loop... polls between
	// iterations"). nil means never abort.
	UserAbort func() bool
}

// NewInterp returns an Interp reading src, evaluating expressions
// against sc and invoking commands from cmds against sess.
func NewInterp(src string, sc *Scope, cmds *Table, sess *session.Session) (*Interp, error) {
	ev, err := NewEvaluator(src, sc, cmds, sess)
	if err != nil {
		return nil, err
	}
	ip := &Interp{Evaluator: ev, MaxCallDepth: 100}
	ev.Frames = &ip.Frames
	return ip, nil
}

var blockOpeners = map[string]bool{"if": true, "loop": true, "while": true, "until": true, "for": true}

func (ip *Interp) skipStmtSep() error {
	for ip.tok.Kind == TokSemicolon {
		if err := ip.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interp) expectKeyword(kw string) error {
	if ip.tok.Kind != TokIdent || ip.tok.Text != kw {
		return fmt.Errorf("script: expected %q, got %q", kw, ip.tok.Text)
	}
	return ip.advance()
}

// mark returns the source offset the current token started at, so a
// later resetTo can re-obtain the identical token.
func (ip *Interp) mark() int { return ip.lex.tokStart }

func (ip *Interp) resetTo(pos int) error {
	ip.lex.pos = pos
	return ip.advance()
}

// Run executes every statement in the script to completion (or until
// a top-level "return"), returning the final status.
func (ip *Interp) Run() status.Status {
	for {
		if err := ip.skipStmtSep(); err != nil {
			return status.New(status.Failure, "%v", err)
		}
		if ip.tok.Kind == TokEOF {
			return status.OK
		}
		res, err := ip.execStatement()
		if err != nil {
			return status.New(status.Failure, "%v", err)
		}
		if res.sig == ctrlReturn {
			return status.OK
		}
		// A bare top-level break/next has no enclosing loop; treat as
		// a no-op continuation, matching a forgiving top-level script.
	}
}

// Call invokes src as a user-function body with the given call
// arguments, pushing a Frame (spec §3 "Script run frame") and
// enforcing $maxCallDepth (spec §4.6 "bounded by $maxCallDepth").
func (ip *Interp) Call(bufferName string, n int, args []datum.Datum) (datum.Datum, status.Status) {
	if ip.Frames.Depth() >= ip.MaxCallDepth {
		return datum.Nil(), status.New(status.Failure, "max call depth %d exceeded", ip.MaxCallDepth)
	}
	ip.Frames.Push(&Frame{Args: args, N: n, BufferName: bufferName})
	ip.sc.PushFrame()
	savedN, savedHasN := ip.N, ip.HasN
	ip.N, ip.HasN = n, true
	defer func() {
		ip.sc.PopFrame()
		ip.Frames.Pop()
		ip.N, ip.HasN = savedN, savedHasN
	}()

	res, err := ip.execBlockToEOF()
	if err != nil {
		return datum.Nil(), status.New(status.Failure, "%v", err)
	}
	return res.ret, status.OK
}

func (ip *Interp) execBlockToEOF() (execResult, error) {
	for {
		if err := ip.skipStmtSep(); err != nil {
			return execResult{}, err
		}
		if ip.tok.Kind == TokEOF {
			return execResult{}, nil
		}
		res, err := ip.execStatement()
		if err != nil {
			return execResult{}, err
		}
		if res.sig == ctrlReturn {
			return res, nil
		}
	}
}

func (ip *Interp) execStatement() (execResult, error) {
	if ip.tok.Kind == TokIdent {
		switch ip.tok.Text {
		case "if":
			return ip.execIf()
		case "loop":
			return ip.execLoop()
		case "while":
			return ip.execWhile(false)
		case "until":
			return ip.execWhile(true)
		case "for":
			return ip.execFor()
		case "break":
			return ip.execBreak()
		case "next":
			if err := ip.advance(); err != nil {
				return execResult{}, err
			}
			return execResult{sig: ctrlNext}, nil
		case "return":
			return ip.execReturn()
		case "let":
			if err := ip.advance(); err != nil {
				return execResult{}, err
			}
		}
	}
	if _, err := ip.parseAssign(); err != nil {
		return execResult{}, err
	}
	return execResult{}, nil
}

// execBlock runs statements until one of terms is seen as the current
// token (left unconsumed) or a non-fallthrough signal escapes the
// block, in which case the token stream is fast-forwarded to the
// matching terminator before returning, so the caller always resumes
// at a known position.
func (ip *Interp) execBlock(terms map[string]bool) (execResult, error) {
	for {
		if err := ip.skipStmtSep(); err != nil {
			return execResult{}, err
		}
		if ip.tok.Kind == TokIdent && terms[ip.tok.Text] {
			return execResult{}, nil
		}
		if ip.tok.Kind == TokEOF {
			return execResult{}, fmt.Errorf("script: unexpected end of input in block")
		}
		res, err := ip.execStatement()
		if err != nil {
			return execResult{}, err
		}
		if res.sig != ctrlNone {
			if err := ip.skipToTerminator(terms); err != nil {
				return execResult{}, err
			}
			return res, nil
		}
	}
}

// skipToTerminator lexically scans forward without executing anything,
// tracking nested block openers/closers, until it lands on one of
// terms at the current nesting depth (or on the depth-0 "endif"/
// "endloop" that always closes the current construct).
func (ip *Interp) skipToTerminator(terms map[string]bool) error {
	depth := 0
	for {
		if ip.tok.Kind == TokEOF {
			return fmt.Errorf("script: unexpected end of input, expected matching terminator")
		}
		if ip.tok.Kind == TokIdent {
			switch {
			case blockOpeners[ip.tok.Text]:
				depth++
			case ip.tok.Text == "endif" || ip.tok.Text == "endloop":
				if depth == 0 {
					return nil
				}
				depth--
			case depth == 0 && (ip.tok.Text == "elsif" || ip.tok.Text == "else") && terms[ip.tok.Text]:
				return nil
			}
		}
		if err := ip.advance(); err != nil {
			return err
		}
	}
}

var ifTerms = map[string]bool{"elsif": true, "else": true, "endif": true}

func (ip *Interp) execIf() (execResult, error) {
	if err := ip.expectKeyword("if"); err != nil {
		return execResult{}, err
	}
	cond, err := ip.parseAssign()
	if err != nil {
		return execResult{}, err
	}
	if err := ip.skipStmtSep(); err != nil {
		return execResult{}, err
	}

	var res execResult
	taken := cond.val.IsTrue()
	if taken {
		res, err = ip.execBlock(ifTerms)
	} else {
		err = ip.skipToTerminator(ifTerms)
	}
	if err != nil {
		return execResult{}, err
	}

	for ip.tok.Kind == TokIdent && ip.tok.Text == "elsif" {
		if err := ip.advance(); err != nil {
			return execResult{}, err
		}
		elifCond, err := ip.parseAssign()
		if err != nil {
			return execResult{}, err
		}
		if err := ip.skipStmtSep(); err != nil {
			return execResult{}, err
		}
		if !taken && elifCond.val.IsTrue() {
			taken = true
			res, err = ip.execBlock(ifTerms)
		} else {
			err = ip.skipToTerminator(ifTerms)
		}
		if err != nil {
			return execResult{}, err
		}
	}

	if ip.tok.Kind == TokIdent && ip.tok.Text == "else" {
		if err := ip.advance(); err != nil {
			return execResult{}, err
		}
		if err := ip.skipStmtSep(); err != nil {
			return execResult{}, err
		}
		endifOnly := map[string]bool{"endif": true}
		if !taken {
			res, err = ip.execBlock(endifOnly)
		} else {
			err = ip.skipToTerminator(endifOnly)
		}
		if err != nil {
			return execResult{}, err
		}
	}

	if err := ip.expectKeyword("endif"); err != nil {
		return execResult{}, err
	}
	return res, nil
}

var loopTerms = map[string]bool{"endloop": true}

// runLoopBody executes one iteration's worth of the block at bodyStart
// and interprets break/next against the enclosing loop, returning
// (stop, result, error): stop means the loop construct itself should
// end (break exhausted or return/error propagating).
func (ip *Interp) runLoopBody(bodyStart int) (bool, execResult, error) {
	if ip.UserAbort != nil && ip.UserAbort() {
		return true, execResult{}, fmt.Errorf("script: aborted")
	}
	if err := ip.resetTo(bodyStart); err != nil {
		return true, execResult{}, err
	}
	res, err := ip.execBlock(loopTerms)
	if err != nil {
		return true, execResult{}, err
	}
	switch res.sig {
	case ctrlBreak:
		if res.breakLevel > 1 {
			return true, execResult{sig: ctrlBreak, breakLevel: res.breakLevel - 1}, nil
		}
		return true, execResult{}, nil
	case ctrlReturn:
		return true, res, nil
	case ctrlNext, ctrlNone:
		return false, execResult{}, nil
	}
	return false, execResult{}, nil
}

func (ip *Interp) execLoop() (execResult, error) {
	if err := ip.expectKeyword("loop"); err != nil {
		return execResult{}, err
	}
	if err := ip.skipStmtSep(); err != nil {
		return execResult{}, err
	}
	bodyStart := ip.mark()
	for {
		stop, res, err := ip.runLoopBody(bodyStart)
		if err != nil {
			return execResult{}, err
		}
		if stop {
			if err := ip.expectKeyword("endloop"); err != nil {
				return execResult{}, err
			}
			return res, nil
		}
	}
}

func (ip *Interp) execWhile(invert bool) (execResult, error) {
	kw := "while"
	if invert {
		kw = "until"
	}
	if err := ip.expectKeyword(kw); err != nil {
		return execResult{}, err
	}
	condStart := ip.mark()
	for {
		if err := ip.resetTo(condStart); err != nil {
			return execResult{}, err
		}
		cond, err := ip.parseAssign()
		if err != nil {
			return execResult{}, err
		}
		if err := ip.skipStmtSep(); err != nil {
			return execResult{}, err
		}
		bodyStart := ip.mark()

		proceed := cond.val.IsTrue()
		if invert {
			proceed = !proceed
		}
		if !proceed {
			if err := ip.skipToTerminator(loopTerms); err != nil {
				return execResult{}, err
			}
			if err := ip.expectKeyword("endloop"); err != nil {
				return execResult{}, err
			}
			return execResult{}, nil
		}

		stop, res, err := ip.runLoopBody(bodyStart)
		if err != nil {
			return execResult{}, err
		}
		if stop {
			if err := ip.skipToTerminator(loopTerms); err != nil {
				return execResult{}, err
			}
			if err := ip.expectKeyword("endloop"); err != nil {
				return execResult{}, err
			}
			return res, nil
		}
	}
}

func (ip *Interp) execFor() (execResult, error) {
	if err := ip.expectKeyword("for"); err != nil {
		return execResult{}, err
	}
	if ip.tok.Kind != TokGlobal {
		return execResult{}, fmt.Errorf("script: expected loop variable after 'for', got %q", ip.tok.Text)
	}
	varName := ip.tok.Text
	if err := ip.advance(); err != nil {
		return execResult{}, err
	}
	if err := ip.expectKeyword("in"); err != nil {
		return execResult{}, err
	}
	arrR, err := ip.parseAssign()
	if err != nil {
		return execResult{}, err
	}
	if err := ip.skipStmtSep(); err != nil {
		return execResult{}, err
	}
	bodyStart := ip.mark()

	var items []datum.Datum
	if arrR.val.Kind() == datum.KindArray {
		items = arrR.val.Array().Items
	}

	var final execResult
	for _, item := range items {
		ip.sc.SetVar(varName, item)
		stop, res, err := ip.runLoopBody(bodyStart)
		if err != nil {
			return execResult{}, err
		}
		if stop {
			final = res
			break
		}
	}
	if err := ip.resetTo(bodyStart); err != nil {
		return execResult{}, err
	}
	if err := ip.skipToTerminator(loopTerms); err != nil {
		return execResult{}, err
	}
	if err := ip.expectKeyword("endloop"); err != nil {
		return execResult{}, err
	}
	return final, nil
}

func (ip *Interp) execBreak() (execResult, error) {
	if err := ip.advance(); err != nil { // consume 'break'
		return execResult{}, err
	}
	level := 1
	if ip.tok.Kind == TokNumber && ip.tok.IsInt {
		level = int(ip.tok.IntVal)
		if err := ip.advance(); err != nil {
			return execResult{}, err
		}
	}
	if level < 1 {
		level = 1
	}
	return execResult{sig: ctrlBreak, breakLevel: level}, nil
}

func (ip *Interp) execReturn() (execResult, error) {
	if err := ip.advance(); err != nil { // consume 'return'
		return execResult{}, err
	}
	if ip.tok.Kind == TokSemicolon || ip.tok.Kind == TokEOF {
		return execResult{sig: ctrlReturn, ret: datum.Nil()}, nil
	}
	r, err := ip.parseAssign()
	if err != nil {
		return execResult{}, err
	}
	return execResult{sig: ctrlReturn, ret: r.val}, nil
}
