package window

// FirstCol returns the active horizontal-scroll origin for w: its own
// Face.FirstCol in PerWindow mode, or the owning Screen's
// ScreenFirstCol in PerScreen mode (spec §4.3 "Horizontal scroll").
func (s *Screen) FirstCol(w *Window) int {
	if s.ScrollMode == PerScreen {
		return s.ScreenFirstCol
	}
	return w.Face.FirstCol
}

// SetFirstCol writes the active horizontal-scroll origin, routed to
// the window or the screen per ScrollMode.
func (s *Screen) SetFirstCol(w *Window, col int) {
	if s.ScrollMode == PerScreen {
		s.ScreenFirstCol = col
	} else {
		w.Face.FirstCol = col
	}
}

// HorzReframe returns the new first-column origin after the point at
// pointCol moves off the visible [firstCol, firstCol+cols) band,
// jumping by horzJumpPct percent of cols (spec: "An off-screen point
// triggers horizontal jump of horzJumpPct columns"). Returns firstCol
// unchanged, and false, when no scroll is needed.
func HorzReframe(firstCol, cols, pointCol, horzJumpPct int) (int, bool) {
	if pointCol >= firstCol && pointCol < firstCol+cols {
		return firstCol, false
	}
	jump := cols * clampPct(horzJumpPct) / 100
	if jump < 1 {
		jump = 1
	}
	if pointCol < firstCol {
		newFirst := pointCol - jump
		if newFirst < 0 {
			newFirst = 0
		}
		return newFirst, true
	}
	newFirst := pointCol - cols + jump
	if newFirst < 0 {
		newFirst = 0
	}
	return newFirst, true
}
