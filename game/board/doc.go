// Package board defines the Klotski board model and its packed layout encoding.
//
// The board package implements:
//   - The 5x4 board of piece codes used at every external boundary
//   - A packed 60-bit Layout encoding (20 cells, 3 bits each)
//   - The explicit bijection between board codes and packed cell codes
//   - Horizontal mirroring and canonical (symmetry-reduced) forms
//   - The fixed goal predicate for the 2x2 piece
//   - Base58 share codes wrapping the packed integer
//
// Board and Layout:
//
// A Board is the human-facing grid of small integers found in puzzle JSON
// files and API payloads: 0 empty, 1 soldier (1x1), 2 horizontal (1x2),
// 3 vertical (2x1), 4 general (2x2). A Layout packs the same configuration
// into a single uint64: cell (r,c) occupies 3 bits at offset 3*(r*4+c),
// least significant bits first. The two encodings deliberately disagree on
// the codes for the 1x2 and 2x1 shapes; Pack and Unpack translate through
// the bijection table and never assume the numberings coincide.
//
// The packed integer, rendered as a decimal string, is the stable
// persistence and wire format. Saved games and exported layouts carry it;
// changing the bit width, cell offsets, or cell codes would strand existing
// saves.
//
// Canonical Form:
//
// Mirror reflects a layout left-right. Canonical returns the smaller of a
// layout and its mirror under integer ordering, so mirror-equivalent
// configurations collapse to one representative. Search code deduplicates
// on canonical forms; the win condition is itself mirror-invariant because
// the goal cells straddle the board's vertical centerline.
//
// Usage:
//
//	layout, err := board.Pack(b)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key := layout.Canonical()
//	if layout.IsGoal() {
//		// the 2x2 has reached the exit
//	}
//
//	saved := layout.String()             // decimal wire form
//	restored, err := board.ParseLayout(saved)
package board
