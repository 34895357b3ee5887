package key

// DefaultBindings installs the out-of-the-box key table: the small
// set of control/meta/function keys spec.md's worked examples assume
// are already bound (motion, editing, window, and session commands),
// named the same as the command they invoke. Multi-key prefix
// sequences (the source's "C-x C-s"-style two-key bindings) are out
// of scope here: the default table only covers single-keystroke
// bindings the root and meta slots already decode.
func DefaultBindings(t *Table) {
	cmd := func(name string) Target { return Target{Kind: TargetCommand, CommandName: name} }

	bind := func(lit string, name string) {
		k, err := Parse(lit)
		if err != nil {
			panic("key: bad default binding literal " + lit + ": " + err.Error())
		}
		t.Bind(k, cmd(name))
	}

	bind("C-f", "forwChar")
	bind("C-b", "backChar")
	bind("C-n", "forwLine")
	bind("C-p", "backLine")
	bind("M-f", "forwWord")
	bind("M-b", "backWord")
	bind("C-v", "forwPage")
	bind("M-v", "backPage")
	bind("C-a", "beginLine")
	bind("C-e", "endLine")

	t.Bind(FKey|fnOrdinal(1), cmd("backLine"))  // Up
	t.Bind(FKey|fnOrdinal(2), cmd("forwLine"))  // Down
	t.Bind(FKey|fnOrdinal(3), cmd("forwChar"))  // Right
	t.Bind(FKey|fnOrdinal(4), cmd("backChar"))  // Left
	t.Bind(FKey|fnOrdinal(5), cmd("beginLine")) // Home
	t.Bind(FKey|fnOrdinal(6), cmd("endLine"))   // End

	bind("RTN", "newline")
	bind("C-d", "deleteForwChar")
	bind("DEL", "deleteBackChar")
	bind("C-k", "killLine")

	t.Bind(Ctrl|' ', cmd("setMark"))
	bind("C-w", "killRegion")
	bind("M-w", "copyRegion")
	bind("C-y", "yank")

	bind("M-n", "nextWindow")
	bind("M-p", "prevWindow")

	bind("C-g", "abort")
}

// fnOrdinal packs a 1-based function-key ordinal the way internal/term's
// "fn" helper (used by dispatchCSI/dispatchSS3) does, minus the FKey
// bit, which callers OR in; it is duplicated rather than exporting
// that helper from internal/term (which would create an import cycle:
// term already imports key).
func fnOrdinal(n int) ExtKey {
	return ExtKey(n + '!' - 1)
}
