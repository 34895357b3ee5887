package text

import "mightemacs/internal/status"

// InsertBytes inserts b at p, advances p by len(b), and reports the
// insertion through hook (spec §4.1 table). Does not itself check a
// buffer's read-only flag; callers (internal/buffer) do that before
// calling, since read-only is a buffer concept the store doesn't have.
func InsertBytes(s *Store, hook Hook, p *Point, b []byte) status.Status {
	if !p.Valid(s) {
		return status.New(status.FatalError, "insertBytes: invalid point")
	}
	l := s.lines[p.Line]
	n := len(b)
	data := make([]byte, 0, len(l.data)+n)
	data = append(data, l.data[:p.Offset]...)
	data = append(data, b...)
	data = append(data, l.data[p.Offset:]...)
	l.data = data

	hook.OnInsert(p.Line, p.Offset, n)
	p.Offset += n
	return status.OK
}

// InsertNewline splits the current line at p, moving p to offset 0 of
// the new next line (spec §4.1 table).
func InsertNewline(s *Store, hook Hook, p *Point) status.Status {
	if !p.Valid(s) {
		return status.New(status.FatalError, "insertNewline: invalid point")
	}
	l := s.lines[p.Line]
	suffix := append([]byte(nil), l.data[p.Offset:]...)
	l.data = l.data[:p.Offset]

	newID := s.alloc(suffix)
	s.linkAfter(p.Line, newID)

	hook.OnSplit(p.Line, newID, p.Offset)

	p.Line = newID
	p.Offset = 0
	return status.OK
}

// DeleteForward deletes n bytes forward from p, crossing line
// boundaries (each crossing concatenates the next line into the
// current one), and reports NotFound without mutation if p is already
// at end-of-buffer. Returns the bytes actually deleted.
func DeleteForward(s *Store, hook Hook, p *Point, n int) ([]byte, status.Status) {
	if !p.Valid(s) {
		return nil, status.New(status.FatalError, "deleteForward: invalid point")
	}
	if n <= 0 {
		return nil, status.OK
	}
	if p.AtEOB(s) {
		return nil, status.New(status.NotFound, "end of buffer")
	}

	var removed []byte
	remaining := n
	for remaining > 0 {
		l := s.lines[p.Line]
		avail := len(l.data) - p.Offset

		if avail >= remaining {
			removed = append(removed, l.data[p.Offset:p.Offset+remaining]...)
			l.data = append(l.data[:p.Offset], l.data[p.Offset+remaining:]...)
			hook.OnDeleteWithinLine(p.Line, p.Offset, remaining)
			remaining = 0
			break
		}

		// consume the rest of this line, plus the newline that follows it
		removed = append(removed, l.data[p.Offset:]...)
		remaining -= avail

		next := l.next
		if next == 0 {
			// nothing after this line: the trailing newline doesn't
			// exist, so we've deleted everything we can.
			l.data = l.data[:p.Offset]
			hook.OnDeleteWithinLine(p.Line, p.Offset, avail)
			remaining = 0
			break
		}
		remaining-- // the newline itself counts as one deleted byte
		removed = append(removed, '\n') // line terminators aren't stored, but the kill text needs one
		if remaining < 0 {
			remaining = 0
		}

		nextLine := s.lines[next]
		boundary := p.Offset
		if remaining >= len(nextLine.data) {
			// whole next line is consumed too; merge and continue
			removed = append(removed, nextLine.data...)
			remaining -= len(nextLine.data)
			l.data = l.data[:boundary]
			s.unlinkMerged(next)
			hook.OnLineMerged(p.Line, next, boundary, len(nextLine.data))
		} else {
			kept := nextLine.data[remaining:]
			removed = append(removed, nextLine.data[:remaining]...)
			l.data = append(l.data[:boundary], kept...)
			s.unlinkMerged(next)
			hook.OnLineMerged(p.Line, next, boundary, remaining)
			remaining = 0
		}
	}
	return removed, status.OK
}

// unlinkMerged removes a line from the chain after its content has
// been folded into its predecessor; unlike unlink, the caller already
// holds the merge target, so this only needs to repair next/prev links
// and drop the line from the map (it no longer has a home).
func (s *Store) unlinkMerged(id LineID) {
	l := s.lines[id]
	prev, next := l.prev, l.next
	if prev != 0 {
		s.lines[prev].next = next
	} else {
		s.first = next
	}
	if next != 0 {
		s.lines[next].prev = prev
	} else {
		s.last = prev
	}
	delete(s.lines, id)
}

// DeleteBackward deletes n bytes backward from p, moving p to the start
// of the deleted range, returning NotFound without mutation at
// beginning-of-buffer.
func DeleteBackward(s *Store, hook Hook, p *Point, n int) ([]byte, status.Status) {
	if !p.Valid(s) {
		return nil, status.New(status.FatalError, "deleteBackward: invalid point")
	}
	if n <= 0 {
		return nil, status.OK
	}
	if p.AtBOB(s) {
		return nil, status.New(status.NotFound, "beginning of buffer")
	}

	start := *p
	for i := 0; i < n; i++ {
		if start.AtBOB(s) {
			break
		}
		if start.Offset > 0 {
			start.Offset--
		} else {
			start.Line = s.Prev(start.Line)
			start.Offset = s.Len(start.Line)
		}
	}
	deleteN := n
	if avail := countBytes(s, start, *p); avail < deleteN {
		deleteN = avail
	}
	removed, st := DeleteForward(s, hook, &start, deleteN)
	if st.IsError() {
		return nil, st
	}
	*p = start
	return removed, status.OK
}

func countBytes(s *Store, a, b Point) int {
	n := 0
	cur := a
	for cur.Line != b.Line || cur.Offset != b.Offset {
		if cur.Offset < s.Len(cur.Line) {
			cur.Offset++
		} else {
			cur.Line = s.Next(cur.Line)
			cur.Offset = 0
			n++ // the newline
			continue
		}
		n++
	}
	return n
}

// ReplaceChar overwrites the byte at p with c, without moving p.
func ReplaceChar(s *Store, p Point, c byte) status.Status {
	if !p.Valid(s) {
		return status.New(status.FatalError, "replaceChar: invalid point")
	}
	l := s.lines[p.Line]
	if p.Offset >= len(l.data) {
		return status.New(status.NotFound, "end of line")
	}
	l.data[p.Offset] = c
	return status.OK
}
