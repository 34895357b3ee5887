package script

import (
	"mightemacs/internal/datum"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
)

// CommandFunc is the shape every command implementation has, whether
// invoked from the key-dispatch loop or from a running script (spec:
// "Script execution runs the same commands by name through the same
// execution table"). n is the resolved numeric argument (spec §4.4's
// universal-argument default-4 rule already applied); hasN reports
// whether one was actually supplied, since some commands distinguish
// "no argument" from "argument 1". args are the script-call arguments,
// empty when invoked from a keystroke.
type CommandFunc func(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status)

// Command is one registered entry: a name, its arity bounds, and the
// handler. MaxArgs of -1 means variadic.
type Command struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      CommandFunc
}

// Table is the name -> Command registry shared by the key-dispatch
// loop (via Binding.TargetCommand) and the script interpreter (bare
// identifier statements and call expressions).
type Table struct {
	cmds map[string]*Command
}

// NewTable returns an empty command table.
func NewTable() *Table { return &Table{cmds: make(map[string]*Command)} }

// Register adds or replaces a command by name.
func (t *Table) Register(c *Command) { t.cmds[c.Name] = c }

// Lookup finds a command by name.
func (t *Table) Lookup(name string) (*Command, bool) {
	c, ok := t.cmds[name]
	return c, ok
}

// Call invokes a named command after checking its arity, mirroring the
// source's descriptor table's (name, flags, arg-count) validation
// (spec §9 "Script dispatch").
func (t *Table) Call(sess *session.Session, name string, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	c, ok := t.cmds[name]
	if !ok {
		return datum.Nil(), status.New(status.Failure, "no such command %q", name)
	}
	if len(args) < c.MinArgs || (c.MaxArgs >= 0 && len(args) > c.MaxArgs) {
		return datum.Nil(), status.New(status.Failure, "%s: wrong number of arguments", name)
	}
	return c.Fn(sess, n, hasN, args)
}

// Names returns every registered command name, for completion.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.cmds))
	for name := range t.cmds {
		names = append(names, name)
	}
	return names
}
