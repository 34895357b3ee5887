// Package buffer implements the Buffer, Mark, and Ring types of spec
// §3, including the mark-fixup invariants of §4.2.
package buffer

import "mightemacs/internal/text"

// Distinguished mark ids (spec §3: "two distinguished marks: the
// saved-point-before-a-motion-command mark and the last-region-endpoint
// mark").
const (
	MarkPreMotion = "."
	MarkRegionEnd = "-"
)

// Mark is a persistent named position (spec §3).
type Mark struct {
	ID         string
	Point      text.Point
	ReframeRow int
}

// markFixup implements text.Hook to apply spec §4.2's mark-update
// rules as edits happen. It is also reused, with the same logic, to
// keep window Faces in sync (spec §4.2: "Window faces are updated by
// the same rules applied to the stored face point and top-line").
type markFixup struct {
	points []*text.Point // the positions to keep consistent (marks + faces)
}

func (m *markFixup) OnInsert(line text.LineID, at, n int) {
	for _, p := range m.points {
		if p.Line == line && p.Offset >= at {
			p.Offset += n
		}
	}
}

func (m *markFixup) OnSplit(line, newLine text.LineID, at int) {
	for _, p := range m.points {
		if p.Line == line && p.Offset >= at {
			p.Line = newLine
			p.Offset -= at
		}
	}
}

func (m *markFixup) OnDeleteWithinLine(line text.LineID, at, n int) {
	for _, p := range m.points {
		if p.Line == line && p.Offset > at {
			p.Offset -= n
			if p.Offset < at {
				p.Offset = at
			}
		}
	}
}

func (m *markFixup) OnLineMerged(survivor, removed text.LineID, boundaryOffset, deletedPrefixLen int) {
	for _, p := range m.points {
		if p.Line != removed {
			continue
		}
		p.Line = survivor
		if p.Offset <= deletedPrefixLen {
			p.Offset = boundaryOffset
		} else {
			p.Offset = boundaryOffset + p.Offset - deletedPrefixLen
		}
	}
}
