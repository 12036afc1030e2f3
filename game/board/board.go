package board

import (
	"errors"
	"fmt"
	"strings"
)

// Board dimensions. Every board and layout in the engine is 5 rows by 4
// columns; the packed encoding and the goal cells are defined against these.
const (
	Rows  = 5
	Cols  = 4
	Cells = Rows * Cols
)

// Piece codes as they appear in boards (JSON puzzle files, API payloads).
// These are the human-facing half of the code bijection; the packed Layout
// uses its own cell codes (see layout.go).
const (
	Empty      = 0 // vacant cell
	Soldier    = 1 // 1x1 piece
	Horizontal = 2 // 1x2 piece, lying
	Vertical   = 3 // 2x1 piece, standing
	General    = 4 // 2x2 piece, the escape target
)

// Validation errors. Callers match with errors.Is; the wrapped message
// carries the offending position or value.
var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrUnknownPieceCode  = errors.New("unknown piece code")
	ErrBrokenPiece       = errors.New("piece footprint is broken")
)

// Board is a rectangular grid of piece codes, row 0 at the top. It is the
// only board representation that crosses package boundaries; search code
// works on packed Layouts instead.
type Board [][]int

// New returns an all-empty board of the fixed dimensions.
func New() Board {
	b := make(Board, Rows)
	for r := range b {
		b[r] = make([]int, Cols)
	}
	return b
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for r := range b {
		c[r] = make([]int, len(b[r]))
		copy(c[r], b[r])
	}
	return c
}

// checkShape verifies the board is exactly Rows x Cols with known codes.
func (b Board) checkShape() error {
	if len(b) != Rows {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidDimensions, len(b), Rows)
	}
	for r, row := range b {
		if len(row) != Cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, r, len(row), Cols)
		}
		for c, code := range row {
			if code < Empty || code > General {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrUnknownPieceCode, code, r, c)
			}
		}
	}
	return nil
}

// Validate checks the board's shape, codes, and piece integrity: every
// multi-cell piece must occupy its full rectangular footprint with matching
// codes. Boards that fail Validate may still Pack (packing only checks shape
// and codes) but are rejected by the puzzle catalog and the engine.
func (b Board) Validate() error {
	if err := b.checkShape(); err != nil {
		return err
	}

	var seen [Rows][Cols]bool
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if seen[r][c] || b[r][c] == Empty {
				continue
			}
			code := b[r][c]
			for _, cell := range footprintOffsets(code) {
				rr, cc := r+cell[0], c+cell[1]
				if rr >= Rows || cc >= Cols {
					return fmt.Errorf("%w: piece %d at (%d,%d) runs off the board", ErrBrokenPiece, code, r, c)
				}
				if seen[rr][cc] {
					return fmt.Errorf("%w: piece %d at (%d,%d) overlaps another piece", ErrBrokenPiece, code, r, c)
				}
				if b[rr][cc] != code {
					return fmt.Errorf("%w: piece %d at (%d,%d) missing cell (%d,%d)", ErrBrokenPiece, code, r, c, rr, cc)
				}
				seen[rr][cc] = true
			}
		}
	}
	return nil
}

// Inventory counts the pieces on the board by piece code, each multi-cell
// piece counted once. Cells are claimed by the same greedy walk Validate
// uses, so the counts are only meaningful for boards that pass Validate.
func (b Board) Inventory() map[int]int {
	counts := make(map[int]int)
	var seen [Rows][Cols]bool
	for r := 0; r < Rows && r < len(b); r++ {
		for c := 0; c < Cols && c < len(b[r]); c++ {
			if seen[r][c] || b[r][c] == Empty {
				continue
			}
			code := b[r][c]
			counts[code]++
			for _, cell := range footprintOffsets(code) {
				rr, cc := r+cell[0], c+cell[1]
				if rr < Rows && cc < Cols {
					seen[rr][cc] = true
				}
			}
		}
	}
	return counts
}

// footprintOffsets returns the cells a piece of the given board code covers,
// relative to its top-left cell in row-major scan order.
func footprintOffsets(code int) [][2]int {
	switch code {
	case Soldier:
		return [][2]int{{0, 0}}
	case Horizontal:
		return [][2]int{{0, 0}, {0, 1}}
	case Vertical:
		return [][2]int{{0, 0}, {1, 0}}
	case General:
		return [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	default:
		return nil
	}
}

// pieceRunes maps board codes to their display characters.
var pieceRunes = [5]byte{'.', 'S', 'H', 'V', 'G'}

// String renders the board as one character per cell, rows separated by
// newlines. Intended for logs, CLI output, and test failure messages.
func (b Board) String() string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, code := range row {
			if code >= Empty && code <= General {
				sb.WriteByte(pieceRunes[code])
			} else {
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}
