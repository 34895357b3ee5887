package key

import "mightemacs/internal/status"

// TargetKind distinguishes what a binding invokes.
type TargetKind int

const (
	TargetCommand TargetKind = iota
	TargetBuffer             // user function: name of an executable "@..." buffer
)

// Target is what a bound key invokes (spec §4.5 "look up binding").
type Target struct {
	Kind       TargetKind
	CommandName string
	BufferName  string
}

// Table is the five-slot dense binding table of spec §4.5. Each slot
// is indexed by Ordinal, giving O(1) lookup and O(n) walk.
type Table struct {
	slots [slotCount][]binding
}

type binding struct {
	bound  bool
	code   ExtKey
	target Target
}

// NewTable returns an empty binding table with every slot sized to
// hold the full ordinal range.
func NewTable() *Table {
	t := &Table{}
	for s := range t.slots {
		t.slots[s] = make([]binding, ordinalCount)
	}
	return t
}

// Bind records that k invokes target, replacing any existing binding
// for k.
func (t *Table) Bind(k ExtKey, target Target) {
	slot := &t.slots[SlotOf(k)]
	i := Ordinal(k)
	(*slot)[i] = binding{bound: true, code: k, target: target}
}

// Unbind removes any binding for k.
func (t *Table) Unbind(k ExtKey) {
	slot := &t.slots[SlotOf(k)]
	(*slot)[Ordinal(k)] = binding{}
}

// Lookup returns the target bound to k, if any.
func (t *Table) Lookup(k ExtKey) (Target, bool) {
	b := t.slots[SlotOf(k)][Ordinal(k)]
	if !b.bound {
		return Target{}, false
	}
	return b.target, true
}

// Walk calls fn for every bound key, in slot-then-ordinal order
// (nextBind's walk order).
func (t *Table) Walk(fn func(k ExtKey, target Target) bool) {
	for _, slot := range t.slots {
		for _, b := range slot {
			if b.bound {
				if !fn(b.code, b.target) {
					return
				}
			}
		}
	}
}

// CountUsers returns how many keys are bound to a command with the
// given name (spec: used by the "show bindings for a command"
// command, and to decide whether unbinding the last key needs
// confirmation).
func (t *Table) CountUsers(commandName string) int {
	n := 0
	t.Walk(func(_ ExtKey, tgt Target) bool {
		if tgt.Kind == TargetCommand && tgt.CommandName == commandName {
			n++
		}
		return true
	})
	return n
}

// FindPrefixFlag reports which prefix bit k's binding introduces, if
// it is bound to one of the four prefix pseudo-commands, otherwise 0
// (findPrefix).
func FindPrefixFlag(t *Table, k ExtKey, prefixCommandNames map[string]ExtKey) ExtKey {
	tgt, ok := t.Lookup(k)
	if !ok || tgt.Kind != TargetCommand {
		return 0
	}
	return prefixCommandNames[tgt.CommandName]
}

// resolveStatus wraps a failed resolution as the Failure status the
// key read loop reports back to the command loop.
func resolveStatus(format string, args ...interface{}) status.Status {
	return status.New(status.Failure, format, args...)
}
