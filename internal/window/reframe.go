package window

// clampPct clamps a percentage to [0,100] (spec §4.3: "a configurable
// percentage, clamped to [0, 100]").
func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// TargetRow computes which screen row the point should land on after a
// reframe, given the window's row count and the configured
// vertJumpPct, per spec §4.3 "Reframe": "jump so the point lands
// rows x pct/100 from the edge," with 0 meaning smooth scrolling
// (handled by the caller keeping the point's current row rather than
// calling TargetRow at all).
func TargetRow(rows, vertJumpPct int) int {
	pct := clampPct(vertJumpPct)
	row := rows * pct / 100
	if row >= rows {
		row = rows - 1
	}
	if row < 0 {
		row = 0
	}
	return row
}

// NeedsReframe reports whether a window's point has moved off its
// visible row band (its NeedReframe flag, or pointRow falling outside
// [0, rows)), per "each Window whose point has moved off-screen (or
// whose reframe flag is set) is reframed."
func (w *Window) NeedsReframe(pointRow int) bool {
	return w.Face.NeedReframe || pointRow < 0 || pointRow >= w.Rows
}

// RequestReframe sets the reframe flag, optionally pinning a specific
// target row for a forced reframe (spec: "Forced reframes respect a
// caller-supplied target row"). Pass targetRow < 0 to let TargetRow
// pick it from vertJumpPct instead.
func (w *Window) RequestReframe(targetRow int) {
	w.Face.NeedReframe = true
	w.Face.ReframeRow = targetRow
}

// ClearReframe resets the reframe flag after redisplay has honored it.
func (w *Window) ClearReframe() {
	w.Face.NeedReframe = false
	w.Face.ReframeRow = -1
}
