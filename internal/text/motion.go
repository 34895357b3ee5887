package text

import "mightemacs/internal/status"

// DefaultWordChars is the default word-character set used by word
// motion (spec §4.1: "a configurable word-character set (default
// [A-Za-z0-9_])").
func DefaultWordChars() [256]bool {
	var set [256]bool
	for c := 'a'; c <= 'z'; c++ {
		set[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		set[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		set[c] = true
	}
	set['_'] = true
	return set
}

// ForwChar moves p forward by one byte, crossing a line boundary (the
// implicit line terminator counts as one position). Returns NotFound at
// end-of-buffer without moving p.
func ForwChar(s *Store, p *Point) status.Status {
	if p.AtEOB(s) {
		return status.New(status.NotFound, "end of buffer")
	}
	if p.Offset < s.Len(p.Line) {
		p.Offset++
	} else {
		p.Line = s.Next(p.Line)
		p.Offset = 0
	}
	return status.OK
}

// BackChar moves p backward by one byte. Returns NotFound at
// beginning-of-buffer without moving p.
func BackChar(s *Store, p *Point) status.Status {
	if p.AtBOB(s) {
		return status.New(status.NotFound, "beginning of buffer")
	}
	if p.Offset > 0 {
		p.Offset--
	} else {
		p.Line = s.Prev(p.Line)
		p.Offset = s.Len(p.Line)
	}
	return status.OK
}

// ForwLine moves p to the same column (clamped) of the next line.
func ForwLine(s *Store, p *Point) status.Status {
	next := s.Next(p.Line)
	if next == 0 {
		return status.New(status.NotFound, "end of buffer")
	}
	p.Line = next
	if p.Offset > s.Len(next) {
		p.Offset = s.Len(next)
	}
	return status.OK
}

// BackLine moves p to the same column (clamped) of the previous line.
func BackLine(s *Store, p *Point) status.Status {
	prev := s.Prev(p.Line)
	if prev == 0 {
		return status.New(status.NotFound, "beginning of buffer")
	}
	p.Line = prev
	if p.Offset > s.Len(prev) {
		p.Offset = s.Len(prev)
	}
	return status.OK
}

func isWordByte(wordChars [256]bool, b byte) bool {
	return wordChars[b]
}

// ForwWord advances p past the end of the current/next word.
func ForwWord(s *Store, p *Point, wordChars [256]bool) status.Status {
	// skip any non-word bytes first
	for {
		if p.AtEOB(s) {
			return status.New(status.NotFound, "end of buffer")
		}
		b, ok := byteAt(s, *p)
		if ok && isWordByte(wordChars, b) {
			break
		}
		if st := ForwChar(s, p); st.IsError() || st.Code == status.NotFound {
			return st
		}
	}
	for {
		b, ok := byteAt(s, *p)
		if !ok || !isWordByte(wordChars, b) {
			break
		}
		if st := ForwChar(s, p); st.Code == status.NotFound {
			break
		}
	}
	return status.OK
}

// BackWord retreats p to the start of the current/previous word.
func BackWord(s *Store, p *Point, wordChars [256]bool) status.Status {
	for {
		if p.AtBOB(s) {
			return status.New(status.NotFound, "beginning of buffer")
		}
		prev := *p
		BackChar(s, &prev)
		b, ok := byteAt(s, prev)
		if ok && isWordByte(wordChars, b) {
			break
		}
		*p = prev
	}
	for {
		if p.AtBOB(s) {
			break
		}
		prev := *p
		BackChar(s, &prev)
		b, ok := byteAt(s, prev)
		if !ok || !isWordByte(wordChars, b) {
			break
		}
		*p = prev
	}
	return status.OK
}

func byteAt(s *Store, p Point) (byte, bool) {
	data := s.Bytes(p.Line)
	if p.Offset < len(data) {
		return data[p.Offset], true
	}
	return 0, false
}

var fencePairs = map[byte]byte{
	'(': ')', '[': ']', '{': '}', '<': '>',
}
var fenceOpen = map[byte]byte{
	')': '(', ']': '[', '}': '{', '>': '<',
}

// FindFence balances a fence character from p, scanning forward for an
// opener or backward for a closer, counting nested pairs (spec §4.1,
// glossary "Fence"). Returns the matching Point, or NotFound if the
// buffer ends before a match.
func FindFence(s *Store, p Point, ch byte) (Point, status.Status) {
	if closer, ok := fencePairs[ch]; ok {
		return scanFence(s, p, ch, closer, true)
	}
	if opener, ok := fenceOpen[ch]; ok {
		return scanFence(s, p, ch, opener, false)
	}
	return p, status.New(status.Failure, "not a fence character")
}

func scanFence(s *Store, p Point, self, match byte, forward bool) (Point, status.Status) {
	depth := 0
	cur := p
	for {
		b, ok := byteAt(s, cur)
		if ok {
			if b == self {
				depth++
			} else if b == match {
				depth--
				if depth == 0 {
					return cur, status.OK
				}
			}
		}
		var st status.Status
		if forward {
			st = ForwChar(s, &cur)
		} else {
			st = BackChar(s, &cur)
		}
		if st.Code == status.NotFound {
			return p, status.New(status.NotFound, "no matching fence")
		}
	}
}

// ExtractRegion returns the bytes spanned by r, joining lines with '\n'.
func ExtractRegion(s *Store, r Region) []byte {
	var out []byte
	cur := r.Start
	for {
		data := s.Bytes(cur.Line)
		if cur.Line == r.End.Line {
			out = append(out, data[cur.Offset:r.End.Offset]...)
			break
		}
		out = append(out, data[cur.Offset:]...)
		out = append(out, '\n')
		cur.Line = s.Next(cur.Line)
		cur.Offset = 0
	}
	return out
}
