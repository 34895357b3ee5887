package buffer

import (
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

// Narrow hides every line before startLine and after endLine from the
// active chain, holding them detached for a later Widen (spec §3
// "Narrowing"). The point is clamped into the visible range if it
// falls outside it.
func (b *Buffer) Narrow(startLine, endLine text.LineID) status.Status {
	if b.Flags.Narrowed {
		return status.New(status.Failure, "buffer %q is already narrowed", b.Name)
	}
	if !b.store.Valid(startLine) || !b.store.Valid(endLine) {
		return status.New(status.Failure, "narrow: invalid line range")
	}

	prefix := b.store.DetachPrefix(startLine)
	suffix := b.store.DetachSuffix(endLine)
	if prefix != 0 {
		b.narrowedPrefix = &narrowSpan{head: prefix}
	}
	if suffix != 0 {
		b.narrowedSuffix = &narrowSpan{head: suffix}
	}
	b.Flags.Narrowed = true

	if !b.store.Valid(b.Point.Line) {
		b.Point = text.Point{Line: b.store.First(), Offset: 0}
	}
	return status.OK
}

// Widen restores any lines hidden by Narrow.
func (b *Buffer) Widen() status.Status {
	if !b.Flags.Narrowed {
		return status.New(status.Failure, "buffer %q is not narrowed", b.Name)
	}
	if b.narrowedPrefix != nil {
		b.store.ReattachPrefix(b.narrowedPrefix.head)
		b.narrowedPrefix = nil
	}
	if b.narrowedSuffix != nil {
		b.store.ReattachSuffix(b.narrowedSuffix.head)
		b.narrowedSuffix = nil
	}
	b.Flags.Narrowed = false
	return status.OK
}
