package board

// Mirror reflects the layout left-right: within every row, the cell at
// column c swaps with the cell at column Cols-1-c. Piece codes are
// unchanged; a mirrored vertical is still a vertical.
func (l Layout) Mirror() Layout {
	var m Layout
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			m |= Layout(l.cell(r, c)) << cellOffset(r, Cols-1-c)
		}
	}
	return m
}

// Canonical returns the smaller of the layout and its mirror under integer
// ordering. Mirror-equivalent layouts share one canonical form, which is
// the key used by every search index and visited set. Idempotent.
func (l Layout) Canonical() Layout {
	if m := l.Mirror(); m < l {
		return m
	}
	return l
}
