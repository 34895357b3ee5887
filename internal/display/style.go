package display

import "fmt"

// Style is the attribute state of one screen cell: the set of
// terminal attributes active at the moment that cell was painted
// (spec §4.7 Phase 3's "~"-escape attribute grammar, and teacher
// basement/style.go's flag-per-attribute Style).
type Style struct {
	Bold      bool
	Reverse   bool
	Underline bool
	AltUL     bool // alternate (curly/colored) underline form, "~#u"
	ColorPair int  // 0 means "no color pair set"
}

// reset reports whether the style carries no attributes at all, the
// state produced by "~Z".
func (s Style) reset() bool {
	return !s.Bold && !s.Reverse && !s.Underline && s.ColorPair == 0
}

// ansiCodes renders s as the SGR escape sequence that sets exactly
// this attribute combination, starting from an unstyled cell (teacher
// tui/screen.go's writeStyle, generalized from a fixed struct of
// independent toggles to the editor's on/off attribute pairs).
func (s Style) ansiCodes() string {
	if s.reset() {
		return "\x1b[0m"
	}
	codes := "\x1b[0"
	if s.Bold {
		codes += ";1"
	}
	if s.Reverse {
		codes += ";7"
	}
	if s.Underline {
		if s.AltUL {
			codes += ";4:3" // curly underline, widely supported alternate form
		} else {
			codes += ";4"
		}
	}
	if s.ColorPair > 0 {
		codes += fmt.Sprintf(";%d", 30+((s.ColorPair-1)%8))
	}
	return codes + "m"
}
