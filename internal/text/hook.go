package text

// Hook receives structural-edit notifications so a caller that owns
// marks and faces (internal/buffer, internal/window) can apply the
// mark-fixup rules of spec §4.2 without the text store needing to know
// what a mark is. All offsets are in the coordinate space at the moment
// of the call, i.e. before any subsequent hook call in the same
// mutation.
type Hook interface {
	// OnInsert reports that n bytes were inserted into line at offset
	// at. Marks on line with offset >= at must move by +n.
	OnInsert(line LineID, at, n int)

	// OnSplit reports that line was split at offset at into (line,
	// newLine): line keeps [0:at), newLine holds what used to be
	// [at:end). Marks on line with offset >= at must migrate to
	// newLine with offset -= at.
	OnSplit(line, newLine LineID, at int)

	// OnDeleteWithinLine reports that n bytes were deleted from line
	// starting at offset at, with no line-boundary crossed. Marks on
	// line with offset > at must clamp to max(at, offset-n).
	OnDeleteWithinLine(line LineID, at, n int)

	// OnLineMerged reports that removed was merged into survivor: the
	// first deletedPrefixLen bytes of removed's original content were
	// deleted and the rest was appended to survivor starting at
	// boundaryOffset. Marks on removed must move to survivor. A mark at
	// offset <= deletedPrefixLen moves to survivor at boundaryOffset; a
	// mark past that point moves to survivor at
	// boundaryOffset+offset-deletedPrefixLen.
	OnLineMerged(survivor, removed LineID, boundaryOffset, deletedPrefixLen int)
}

// NopHook implements Hook with no-op methods, for callers that don't
// track marks (e.g. a scratch buffer used only by the script engine).
type NopHook struct{}

func (NopHook) OnInsert(LineID, int, int)             {}
func (NopHook) OnSplit(LineID, LineID, int)            {}
func (NopHook) OnDeleteWithinLine(LineID, int, int)    {}
func (NopHook) OnLineMerged(LineID, LineID, int, int)  {}
