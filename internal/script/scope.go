package script

import "mightemacs/internal/datum"

// SysVar is one read/write (or read-only) system variable, such as
// $bufname or $wrapcol, backed by a getter/setter pair supplied by the
// component that owns the underlying state (spec §3's sess.* fields,
// now threaded explicitly per internal/session).
type SysVar struct {
	Name     string
	Get      func() datum.Datum
	Set      func(datum.Datum) error // nil if read-only
	ReadOnly bool
}

// Scope is the script engine's three-tier variable namespace: system
// variables (externally backed), global user variables, and local
// variables scoped to the innermost active frame.
type Scope struct {
	sysVars map[string]*SysVar
	globals map[string]datum.Datum
	locals  []map[string]datum.Datum // stack, one map per active frame
}

// NewScope returns an empty Scope with no active local frame.
func NewScope() *Scope {
	return &Scope{
		sysVars: make(map[string]*SysVar),
		globals: make(map[string]datum.Datum),
	}
}

// RegisterSysVar adds or replaces a system variable.
func (s *Scope) RegisterSysVar(v *SysVar) { s.sysVars[v.Name] = v }

// PushFrame opens a new local-variable scope (spec §3 "Nested
// execution pushes a new frame").
func (s *Scope) PushFrame() { s.locals = append(s.locals, make(map[string]datum.Datum)) }

// PopFrame closes the innermost local-variable scope.
func (s *Scope) PopFrame() {
	if len(s.locals) > 0 {
		s.locals = s.locals[:len(s.locals)-1]
	}
}

// GetSysVar reads a system variable by name (without the '$').
func (s *Scope) GetSysVar(name string) (datum.Datum, error) {
	v, ok := s.sysVars[name]
	if !ok {
		return datum.Datum{}, errUndefined("$" + name)
	}
	return v.Get(), nil
}

// SetSysVar writes a system variable by name.
func (s *Scope) SetSysVar(name string, val datum.Datum) error {
	v, ok := s.sysVars[name]
	if !ok {
		return errUndefined("$" + name)
	}
	if v.ReadOnly || v.Set == nil {
		return errReadOnly("$" + name)
	}
	return v.Set(val)
}

// GetVar reads a local (if one is active and has it) or global user
// variable.
func (s *Scope) GetVar(name string) datum.Datum {
	if n := len(s.locals); n > 0 {
		if v, ok := s.locals[n-1][name]; ok {
			return v
		}
	}
	if v, ok := s.globals[name]; ok {
		return v
	}
	return datum.Nil()
}

// SetVar writes name into the innermost active local frame if one
// exists and already declares it, the innermost frame if it's new and
// a frame is active, otherwise the global table (spec: variables
// default to local inside a running script, global at the top level).
func (s *Scope) SetVar(name string, val datum.Datum) {
	if n := len(s.locals); n > 0 {
		s.locals[n-1][name] = val
		return
	}
	s.globals[name] = val
}

type scopeError string

func (e scopeError) Error() string { return string(e) }

func errUndefined(name string) error { return scopeError("undefined variable " + name) }
func errReadOnly(name string) error  { return scopeError(name + " is read-only") }
