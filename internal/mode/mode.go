// Package mode implements the mode system of spec §4.4: a named,
// alphabetically sorted table of boolmode toggles, each either global
// or per-buffer scoped, with mutual-exclusion groups.
package mode

import (
	"fmt"
	"sort"
	"strings"

	"mightemacs/internal/status"
)

// Group is a named bag of mutually exclusive modes: at most one member
// may be enabled at once in a given scope.
type Group struct {
	Name    string
	members []*Spec
}

// Spec describes one mode (spec §3 "Mode").
type Spec struct {
	Name        string
	Description string
	Global      bool // global-vs-buffer scope
	Hidden      bool // hidden from the mode line
	UserDefined bool
	LockedScope bool
	Group       *Group

	enabled bool // meaningful only when Global
}

// Action is the requested change in Table.Change.
type Action int

const (
	Clear Action = iota
	Toggle
	Set
)

// Table is the global mode table: specs sorted alphabetically,
// case-insensitive, binary-searched by name, plus the group registry.
type Table struct {
	specs  []*Spec // kept sorted by lower(Name)
	groups map[string]*Group

	// Hook mirrors spec §4.4 step 5: called, when non-nil, after every
	// mode change that altered the mode's state (no-op changes do not
	// call it), with (buffer-name-or-nil, old-modes). Change has no
	// option to suppress the call.
	Hook func(bufName string, oldModes []string)
}

// NewTable returns an empty mode table.
func NewTable() *Table {
	return &Table{groups: make(map[string]*Group)}
}

// Group returns the named group, creating it if necessary.
func (t *Table) Group(name string) *Group {
	g, ok := t.groups[name]
	if !ok {
		g = &Group{Name: name}
		t.groups[name] = g
	}
	return g
}

// Register inserts spec into the sorted table. Returns an error if a
// mode with the same name (case-insensitive) already exists.
func (t *Table) Register(spec *Spec) error {
	key := strings.ToLower(spec.Name)
	i := sort.Search(len(t.specs), func(i int) bool {
		return strings.ToLower(t.specs[i].Name) >= key
	})
	if i < len(t.specs) && strings.ToLower(t.specs[i].Name) == key {
		return fmt.Errorf("mode %q already registered", spec.Name)
	}
	t.specs = append(t.specs, nil)
	copy(t.specs[i+1:], t.specs[i:])
	t.specs[i] = spec
	if spec.Group != nil {
		spec.Group.members = append(spec.Group.members, spec)
	}
	return nil
}

// Find resolves name to a Spec, by exact case-insensitive match or, if
// exactly one mode's name has it as a prefix, that mode (spec §4.4:
// "Partial-name matching is supported for interactive input").
func (t *Table) Find(name string) (*Spec, status.Status) {
	key := strings.ToLower(name)
	i := sort.Search(len(t.specs), func(i int) bool {
		return strings.ToLower(t.specs[i].Name) >= key
	})
	if i < len(t.specs) && strings.ToLower(t.specs[i].Name) == key {
		return t.specs[i], status.OK
	}

	var match *Spec
	for j := i; j < len(t.specs) && strings.HasPrefix(strings.ToLower(t.specs[j].Name), key); j++ {
		if match != nil {
			return nil, status.New(status.Failure, "mode %q is ambiguous", name)
		}
		match = t.specs[j]
	}
	if match == nil {
		return nil, status.New(status.Failure, "no such mode %q", name)
	}
	return match, status.OK
}

// Enabled reports whether a global mode is currently enabled.
func (s *Spec) Enabled() bool { return s.enabled }

// BufferModes is a buffer's list of enabled buffer-scoped modes (spec
// §3: "a linked list of enabled buffer-local modes"). Order is
// preserved as modes are enabled, mirroring the source's intrusive
// linked list.
type BufferModes struct {
	BufferName string
	order      []string
}

// NewBufferModes returns an empty per-buffer mode list.
func NewBufferModes() *BufferModes { return &BufferModes{} }

func (m *BufferModes) has(name string) int {
	for i, n := range m.order {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Enabled reports whether name is enabled on this buffer.
func (m *BufferModes) Enabled(name string) bool { return m.has(name) >= 0 }

// Names returns a snapshot of the enabled mode names, in enable order
// (used as the hook's old-modes argument).
func (m *BufferModes) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *BufferModes) enable(name string) {
	if m.has(name) < 0 {
		m.order = append(m.order, name)
	}
}

func (m *BufferModes) disable(name string) {
	if i := m.has(name); i >= 0 {
		m.order = append(m.order[:i], m.order[i+1:]...)
	}
}

// Change applies action to the named mode, scoped globally if buf is
// nil or to buf if given, following spec §4.4's five numbered steps.
// Returns whether the mode was enabled before the change.
func (t *Table) Change(name string, action Action, buf *BufferModes) (bool, status.Status) {
	spec, st := t.Find(name)
	if st.IsError() {
		return false, st
	}
	if spec.Global && buf != nil {
		return false, status.New(status.Failure, "mode %q is global, not buffer-scoped", spec.Name)
	}
	if !spec.Global && buf == nil {
		return false, status.New(status.Failure, "mode %q is buffer-scoped, not global", spec.Name)
	}

	var oldModes []string
	var bufName string
	wasEnabled := false
	if spec.Global {
		wasEnabled = spec.enabled
	} else {
		wasEnabled = buf.Enabled(spec.Name)
		oldModes = buf.Names()
		bufName = buf.BufferName
	}

	newState := wasEnabled
	switch action {
	case Clear:
		newState = false
	case Set:
		newState = true
	case Toggle:
		newState = !wasEnabled
	}

	if newState == wasEnabled {
		return wasEnabled, status.OK // no-op, report prior state
	}

	if spec.Global {
		spec.enabled = newState
	} else if newState {
		buf.enable(spec.Name)
	} else {
		buf.disable(spec.Name)
	}

	// step 4: enforce group mutual exclusion
	if newState && spec.Group != nil {
		for _, other := range spec.Group.members {
			if other == spec {
				continue
			}
			if spec.Global {
				other.enabled = false
			} else if buf.Enabled(other.Name) {
				buf.disable(other.Name)
			}
		}
	}

	if t.Hook != nil {
		t.Hook(bufName, oldModes)
	}
	return wasEnabled, status.OK
}
