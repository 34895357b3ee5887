package script

import (
	"mightemacs/internal/buffer"
	"mightemacs/internal/datum"
	"mightemacs/internal/mode"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
	"mightemacs/internal/window"
)

// RegisterBuiltins populates cmds with the editor's core command set:
// motion, insertion/deletion, marks/region/kill-yank, window
// management, and buffer/session control. These are the commands a
// default key binding table and `-e`/script statements both resolve
// by name (spec §4.5 "look up binding", §4.6 "execution table").
func RegisterBuiltins(cmds *Table) {
	for _, c := range []*Command{
		{Name: "forwChar", MinArgs: 0, MaxArgs: 0, Fn: moveCmd(text.ForwChar)},
		{Name: "backChar", MinArgs: 0, MaxArgs: 0, Fn: moveCmd(text.BackChar)},
		{Name: "forwLine", MinArgs: 0, MaxArgs: 0, Fn: moveCmd(text.ForwLine)},
		{Name: "backLine", MinArgs: 0, MaxArgs: 0, Fn: moveCmd(text.BackLine)},
		{Name: "forwWord", MinArgs: 0, MaxArgs: 0, Fn: wordMoveCmd(text.ForwWord)},
		{Name: "backWord", MinArgs: 0, MaxArgs: 0, Fn: wordMoveCmd(text.BackWord)},
		{Name: "forwPage", MinArgs: 0, MaxArgs: 0, Fn: cmdForwPage},
		{Name: "backPage", MinArgs: 0, MaxArgs: 0, Fn: cmdBackPage},
		{Name: "beginLine", MinArgs: 0, MaxArgs: 0, Fn: cmdBeginLine},
		{Name: "endLine", MinArgs: 0, MaxArgs: 0, Fn: cmdEndLine},
		{Name: "beginBuf", MinArgs: 0, MaxArgs: 0, Fn: cmdBeginBuf},
		{Name: "endBuf", MinArgs: 0, MaxArgs: 0, Fn: cmdEndBuf},

		{Name: "selfInsert", MinArgs: 0, MaxArgs: 1, Fn: cmdSelfInsert},
		{Name: "insert", MinArgs: 1, MaxArgs: 1, Fn: cmdInsert},
		{Name: "newline", MinArgs: 0, MaxArgs: 0, Fn: cmdNewline},
		{Name: "deleteForwChar", MinArgs: 0, MaxArgs: 0, Fn: cmdDeleteForwChar},
		{Name: "deleteBackChar", MinArgs: 0, MaxArgs: 0, Fn: cmdDeleteBackChar},
		{Name: "killLine", MinArgs: 0, MaxArgs: 0, Fn: cmdKillLine},

		{Name: "setMark", MinArgs: 0, MaxArgs: 0, Fn: cmdSetMark},
		{Name: "swapMark", MinArgs: 0, MaxArgs: 0, Fn: cmdSwapMark},
		{Name: "killRegion", MinArgs: 0, MaxArgs: 0, Fn: cmdKillRegion},
		{Name: "copyRegion", MinArgs: 0, MaxArgs: 0, Fn: cmdCopyRegion},
		{Name: "yank", MinArgs: 0, MaxArgs: 0, Fn: cmdYank},

		{Name: "splitWindow", MinArgs: 0, MaxArgs: 0, Fn: cmdSplitWindow},
		{Name: "onlyWindow", MinArgs: 0, MaxArgs: 0, Fn: cmdOnlyWindow},
		{Name: "nextWindow", MinArgs: 0, MaxArgs: 0, Fn: cmdNextWindow},
		{Name: "prevWindow", MinArgs: 0, MaxArgs: 0, Fn: cmdPrevWindow},
		{Name: "deleteWindow", MinArgs: 0, MaxArgs: 0, Fn: cmdDeleteWindow},

		{Name: "quit", MinArgs: 0, MaxArgs: 0, Fn: cmdQuit},
		{Name: "abort", MinArgs: 0, MaxArgs: 0, Fn: cmdAbort},

		{Name: "setMode", MinArgs: 1, MaxArgs: 1, Fn: modeCmd(mode.Set)},
		{Name: "clearMode", MinArgs: 1, MaxArgs: 1, Fn: modeCmd(mode.Clear)},
		{Name: "toggleMode", MinArgs: 1, MaxArgs: 1, Fn: modeCmd(mode.Toggle)},
	} {
		cmds.Register(c)
	}
}

// modeCmd builds the setMode/clearMode/toggleMode command for action,
// applying the mode's scope automatically (global modes change the
// session's mode table; anything else changes the current buffer's
// mode list) and the readOnly side effect spec §4.4 calls out
// ("enabling readOnly propagates to the buffer's read-only flag").
func modeCmd(action mode.Action) CommandFunc {
	return func(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
		_, buf := current(sess)
		name := args[0].Str()

		spec, st := sess.Modes.Find(name)
		if st.IsError() {
			return datum.Nil(), st
		}
		var target *mode.BufferModes
		if !spec.Global {
			target = buf.Modes
		}
		_, st = sess.Modes.Change(name, action, target)
		if st.IsError() {
			return datum.Nil(), st
		}
		if spec.Name == "readOnly" {
			buf.Flags.ReadOnly = buf.Modes.Enabled("readOnly")
		}
		return datum.Nil(), status.OK
	}
}

// syncFace copies the buffer's canonical point into the current
// window's Face (movement doesn't go through the mark-fixup hook the
// way InsertBytes/DeleteForward do -- only the point actually being
// mutated by a text.Hook-reporting call gets that treatment) and marks
// the window for a cursor reposition.
func syncFace(w *window.Window) {
	w.Face.Point = w.Buf.Point
	w.SetFlags(window.WFMove)
}

func current(sess *session.Session) (*window.Window, *buffer.Buffer) {
	w := sess.Current.Current()
	return w, w.Buf
}

func repeat(n int, hasN bool) int {
	if !hasN || n < 1 {
		return 1
	}
	return n
}

func moveCmd(fn func(*text.Store, *text.Point) status.Status) CommandFunc {
	return func(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
		w, buf := current(sess)
		for i, count := 0, repeat(n, hasN); i < count; i++ {
			if st := fn(buf.Store(), &buf.Point); st.IsError() {
				syncFace(w)
				return datum.Nil(), st
			}
		}
		syncFace(w)
		return datum.Nil(), status.OK
	}
}

func wordMoveCmd(fn func(*text.Store, *text.Point, [256]bool) status.Status) CommandFunc {
	return func(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
		w, buf := current(sess)
		for i, count := 0, repeat(n, hasN); i < count; i++ {
			if st := fn(buf.Store(), &buf.Point, buf.WordChars); st.IsError() {
				syncFace(w)
				return datum.Nil(), st
			}
		}
		syncFace(w)
		return datum.Nil(), status.OK
	}
}

func cmdForwPage(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	for i := 0; i < w.Rows; i++ {
		if st := text.ForwLine(buf.Store(), &buf.Point); st.IsError() {
			break
		}
	}
	syncFace(w)
	w.SetFlags(window.WFHard)
	return datum.Nil(), status.OK
}

func cmdBackPage(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	for i := 0; i < w.Rows; i++ {
		if st := text.BackLine(buf.Store(), &buf.Point); st.IsError() {
			break
		}
	}
	syncFace(w)
	w.SetFlags(window.WFHard)
	return datum.Nil(), status.OK
}

func cmdBeginLine(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	buf.Point.Offset = 0
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdEndLine(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	buf.Point.Offset = buf.Store().Len(buf.Point.Line)
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdBeginBuf(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	buf.Point = text.Point{Line: buf.Store().First(), Offset: 0}
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdEndBuf(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	last := buf.Store().Last()
	buf.Point = text.Point{Line: last, Offset: buf.Store().Len(last)}
	syncFace(w)
	return datum.Nil(), status.OK
}

// cmdSelfInsert is the target of every plain printable keystroke: the
// dispatch loop passes the typed byte as args[0] (spec §4.5 "an
// unbound plain character self-inserts").
func cmdSelfInsert(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	if len(args) == 0 {
		return datum.Nil(), status.OK
	}
	w, buf := current(sess)
	b := []byte(args[0].Str())
	for i, count := 0, repeat(n, hasN); i < count; i++ {
		if st := buf.InsertBytes(b); st.IsError() {
			return datum.Nil(), st
		}
	}
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdInsert(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	if st := buf.InsertBytes([]byte(args[0].Str())); st.IsError() {
		return datum.Nil(), st
	}
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdNewline(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	for i, count := 0, repeat(n, hasN); i < count; i++ {
		if st := buf.InsertNewline(); st.IsError() {
			return datum.Nil(), st
		}
	}
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdDeleteForwChar(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	_, st := buf.DeleteForward(repeat(n, hasN))
	syncFace(w)
	return datum.Nil(), st
}

func cmdDeleteBackChar(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	_, st := buf.DeleteBackward(repeat(n, hasN))
	syncFace(w)
	return datum.Nil(), st
}

// cmdKillLine deletes from the point to end of line, plus the
// following newline when already at end of line, pushing the removed
// text onto the kill ring (spec §3 "kill ring").
func cmdKillLine(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	count := buf.Store().Len(buf.Point.Line) - buf.Point.Offset
	if count == 0 {
		count = 1 // consume the newline itself
	}
	removed, st := buf.DeleteForward(count)
	syncFace(w)
	if st.IsError() {
		return datum.Nil(), st
	}
	if ring := sess.Rings[session.RingKill]; ring != nil {
		ring.Insert(datum.Blob(removed))
	}
	return datum.Nil(), status.OK
}

func cmdSetMark(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	_, buf := current(sess)
	buf.SetMark(buffer.MarkRegionEnd)
	return datum.Nil(), status.OK
}

// cmdSwapMark exchanges the point and the region-end mark, the
// customary way of reviewing where a region starts (spec §3 "the
// last-region-endpoint mark").
func cmdSwapMark(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	m := buf.Mark(buffer.MarkRegionEnd)
	if m == nil {
		return datum.Nil(), status.New(status.Failure, "no mark set in this buffer")
	}
	buf.Point, m.Point = m.Point, buf.Point
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdKillRegion(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	region, st := buf.Region(buffer.MarkRegionEnd)
	if st.IsError() {
		return datum.Nil(), st
	}
	extracted := text.ExtractRegion(buf.Store(), region)
	buf.Point = region.Start
	removed, st := buf.DeleteForward(len(extracted))
	syncFace(w)
	if st.IsError() {
		return datum.Nil(), st
	}
	if ring := sess.Rings[session.RingKill]; ring != nil {
		ring.Insert(datum.Blob(removed))
	}
	return datum.Nil(), status.OK
}

func cmdCopyRegion(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	_, buf := current(sess)
	region, st := buf.Region(buffer.MarkRegionEnd)
	if st.IsError() {
		return datum.Nil(), st
	}
	copied := text.ExtractRegion(buf.Store(), region)
	if ring := sess.Rings[session.RingKill]; ring != nil {
		ring.Insert(datum.Blob(copied))
	}
	return datum.Nil(), status.OK
}

// cmdYank inserts the most recent kill-ring entry at the point.
func cmdYank(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w, buf := current(sess)
	ring := sess.Rings[session.RingKill]
	if ring == nil {
		return datum.Nil(), status.New(status.NotFound, "kill ring is empty")
	}
	d, ok := ring.Head()
	if !ok {
		return datum.Nil(), status.New(status.NotFound, "kill ring is empty")
	}
	if st := buf.InsertBytes(d.Blob()); st.IsError() {
		return datum.Nil(), st
	}
	syncFace(w)
	return datum.Nil(), status.OK
}

func cmdSplitWindow(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	_, st := sess.Current.Split()
	return datum.Nil(), st
}

func cmdOnlyWindow(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	return datum.Nil(), sess.Current.Only()
}

func cmdNextWindow(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w := sess.Current.Current()
	if nw := w.Next(); nw != nil {
		sess.Current.SetCurrent(nw)
	}
	return datum.Nil(), status.OK
}

func cmdPrevWindow(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	w := sess.Current.Current()
	if pw := w.Prev(); pw != nil {
		sess.Current.SetCurrent(pw)
	}
	return datum.Nil(), status.OK
}

func cmdDeleteWindow(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	return datum.Nil(), sess.Current.Delete(window.JoinBelow)
}

// cmdQuit signals the dispatch loop to exit (spec §7 "UserExit").
func cmdQuit(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	return datum.Nil(), status.New(status.UserExit, "quit")
}

// cmdAbort is bound to the abort key itself as a catch-all no-op
// target: the dispatch loop recognizes the abort key before binding
// lookup even runs (spec §9), but a binding still exists so scripts
// and the "show bindings" commands can name it.
func cmdAbort(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	return datum.Nil(), status.New(status.UserAbort, "")
}
