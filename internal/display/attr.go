package display

// attrSpecBegin is the character that introduces an attribute escape
// in terminal-attribute-enabled buffer text (spec §4.7 Phase 3).
const attrSpecBegin = '~'

// scanAttr consumes one attribute escape from line immediately after
// an attrSpecBegin rune, applying it to st and returning the updated
// style plus the number of runes consumed (including any that must be
// skipped over when the spec letter is invalid, mirroring the
// original putAttrStr: an unrecognized letter/digit sequence is
// swallowed; any other unrecognized byte is left for literal display).
//
// Grammar (spec §4.7 Phase 3): "~b/~B" bold on/off, "~r/~R" reverse
// on/off, "~<n>c/~C" color-pair on/off, "~u/~#u/~U" underline on
// (plain or alternate form)/off, "~Z" all attributes off, "~~" a
// literal tilde.
func scanAttr(st Style, line []rune) (Style, int) {
	if len(line) == 0 {
		return st, 0
	}
	i := 0
	c := line[i]
	i++

	if c == attrSpecBegin {
		// "~~": the tilde itself is displayed, not consumed as a
		// spec letter; the caller is responsible for emitting it.
		return st, 0
	}

	altForm := false
	if c == '#' {
		if i >= len(line) {
			return st, i
		}
		altForm = true
		c = line[i]
		i++
	}

	n := 0
	haveDigits := false
	for c >= '0' && c <= '9' {
		haveDigits = true
		n = n*10 + int(c-'0')
		if i >= len(line) {
			return st, i
		}
		c = line[i]
		i++
	}

	switch c {
	case 'Z':
		return Style{}, i
	case 'b':
		st.Bold = true
		return st, i
	case 'B':
		st.Bold = false
		return st, i
	case 'r':
		st.Reverse = true
		return st, i
	case 'R':
		st.Reverse = false
		return st, i
	case 'c':
		if haveDigits {
			st.ColorPair = n
		}
		return st, i
	case 'C':
		st.ColorPair = 0
		return st, i
	case 'u':
		st.Underline = true
		st.AltUL = altForm
		return st, i
	case 'U':
		st.Underline = false
		st.AltUL = false
		return st, i
	}

	// Invalid spec letter. A letter is swallowed (the whole escape is
	// invisible but meaningless); anything else is left unconsumed so
	// the caller displays this character literally (renderLine does not
	// display the '~' itself).
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return st, i
	}
	return st, i - 1
}
