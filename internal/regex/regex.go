// Package regex adapts github.com/dlclark/regexp2 into the
// pattern-matcher "external collaborator" of spec §6
// ("compile, search forward/backward, extract groups"). regexp2 is
// used instead of the stdlib regexp package because it supports
// right-to-left matching directly, which stdlib's RE2 engine has no
// way to express, and the script engine's `=~`/`!~` operators need
// both directions over the same compiled pattern.
package regex

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"mightemacs/internal/status"
)

// Pattern is one compiled pattern, kept in both scan directions since
// regexp2 bakes RightToLeft into compile options rather than taking it
// per-search.
type Pattern struct {
	source   string
	forward  *regexp2.Regexp
	backward *regexp2.Regexp
}

// Compile compiles source once for forward scanning and once for
// backward scanning.
func Compile(source string, ignoreCase bool) (*Pattern, error) {
	opts := regexp2.RE2
	if ignoreCase {
		opts |= regexp2.IgnoreCase
	}
	fwd, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("regex %q: %w", source, err)
	}
	bwd, err := regexp2.Compile(source, opts|regexp2.RightToLeft)
	if err != nil {
		return nil, fmt.Errorf("regex %q: %w", source, err)
	}
	return &Pattern{source: source, forward: fwd, backward: bwd}, nil
}

// Source returns the original pattern text.
func (p *Pattern) Source() string { return p.source }

// Match is one successful match: its full span, text, and named or
// numbered capture groups ("extract groups").
type Match struct {
	Start, End int
	Text       string
	Groups     map[string]string
}

// SearchForward returns the first match at or after offset in s.
func (p *Pattern) SearchForward(s string, offset int) (*Match, bool, status.Status) {
	return search(p.forward, s, offset)
}

// SearchBackward returns the first match at or before offset in s,
// scanning right-to-left.
func (p *Pattern) SearchBackward(s string, offset int) (*Match, bool, status.Status) {
	return search(p.backward, s, offset)
}

func search(re *regexp2.Regexp, s string, offset int) (*Match, bool, status.Status) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s) {
		offset = len(s)
	}
	m, err := re.FindStringMatchStartingAt(s, offset)
	if err != nil {
		return nil, false, status.New(status.Failure, "regex error: %v", err)
	}
	if m == nil {
		return nil, false, status.OK
	}
	out := &Match{Start: m.Index, End: m.Index + m.Length, Text: m.String(), Groups: map[string]string{}}
	for _, g := range m.Groups() {
		if g.Length == 0 && g.Name != "0" {
			continue
		}
		out.Groups[g.Name] = g.String()
	}
	return out, true, status.OK
}
