package key

import (
	"fmt"
	"strings"
)

// keyword is one of the named literals recognised in key-literal
// syntax (spec §4.5), mirroring bind.c's keyLiterals table.
type keyword struct {
	name string
	key  ExtKey
}

var keywords = []keyword{
	{"SPC", ' '},
	{"TAB", Ctrl | 'I'},
	{"ESC", Ctrl | '['},
	{"RTN", Ctrl | 'M'},
	{"DEL", Ctrl | '?'},
}

// Parse converts a key-literal such as "C-x", "M-C-s", "^G", "FN5", or
// "SPC" into an ExtKey, following the "[prefix-]*key" grammar of spec
// §4.5 (bind.c's stoek1). Multiple space-separated values (for a
// two-key prefix binding like "C-x C-s") are not handled here; callers
// combine two Parse results themselves, as stoek does.
func Parse(lit string) (ExtKey, error) {
	var acc ExtKey
	s := lit

	for {
		switch {
		case len(s) >= 2 && s[1] == '-' && (s[0] == 'M' || s[0] == 'm'):
			if acc&Meta != 0 {
				return 0, fmt.Errorf("key literal %q: duplicate M- prefix", lit)
			}
			acc |= Meta
			s = s[2:]
		case len(s) >= 2 && s[1] == '-' && (s[0] == 'S' || s[0] == 's'):
			if acc&Shift != 0 {
				return 0, fmt.Errorf("key literal %q: duplicate S- prefix", lit)
			}
			acc |= Shift
			s = s[2:]
		case len(s) >= 2 && s[1] == '-' && (s[0] == 'C' || s[0] == 'c'):
			if acc&Ctrl != 0 {
				return 0, fmt.Errorf("key literal %q: duplicate C- prefix", lit)
			}
			acc |= Ctrl
			s = s[2:]
		case len(s) >= 1 && s[0] == '^' && len(s) > 1:
			if acc&Ctrl != 0 {
				return 0, fmt.Errorf("key literal %q: duplicate Ctrl prefix", lit)
			}
			acc |= Ctrl
			s = s[1:]
		case len(s) >= 2 && strings.EqualFold(s[:2], "fn"):
			if acc&FKey != 0 {
				return 0, fmt.Errorf("key literal %q: duplicate FN prefix", lit)
			}
			acc |= FKey
			s = s[2:]
		default:
			return finishParse(lit, s, acc)
		}
	}
}

func finishParse(lit, rest string, acc ExtKey) (ExtKey, error) {
	if rest == "" {
		return 0, fmt.Errorf("key literal %q: missing key after prefixes", lit)
	}
	for _, kw := range keywords {
		if len(rest) == len(kw.name) && strings.EqualFold(rest, kw.name) {
			return acc | kw.key, nil
		}
	}
	if len(rest) == 1 {
		c := ExtKey(rest[0])
		if acc&Ctrl != 0 {
			c = ExtKey(upperByte(rest[0]))
			return acc | c, nil
		}
		if acc&Shift != 0 && acc&FKey == 0 && isLetter(rest[0]) {
			return (acc &^ Shift) | ExtKey(upperByte(rest[0])), nil
		}
		return acc | c, nil
	}
	// FNn: digit(s) naming a function key ordinal.
	if acc&FKey != 0 {
		n := 0
		for _, c := range rest {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("key literal %q: invalid function key number", lit)
			}
			n = n*10 + int(c-'0')
		}
		return acc | ExtKey(n+'!'-1), nil
	}
	return 0, fmt.Errorf("key literal %q: unrecognised key %q", lit, rest)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Format renders k back to key-literal text, the inverse of Parse
// (ektos). Control characters round-trip through their printable
// "C-x" spelling rather than the literal byte.
func Format(k ExtKey) string {
	var b strings.Builder
	if k&Meta != 0 {
		b.WriteString("M-")
	}
	if k&FKey != 0 {
		b.WriteString("FN")
	}
	if k&Shift != 0 {
		b.WriteString("S-")
	}
	if k&Ctrl != 0 {
		b.WriteString("C-")
	}
	c := k.Code()
	for _, kw := range keywords {
		if kw.key == k {
			return kw.name
		}
	}
	if k&FKey != 0 {
		fmt.Fprintf(&b, "%d", int(c)-'!'+1)
		return b.String()
	}
	b.WriteByte(c)
	return b.String()
}
