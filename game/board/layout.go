package board

import (
	"errors"
	"fmt"
	"strconv"
)

// Layout packs a full board into one integer: cell (r,c) contributes a
// 3-bit cell code at bit offset 3*(r*Cols+c), least significant bits first.
// Layouts are immutable values; all operations return new ones.
type Layout uint64

// CellBits is the width of one packed cell code.
const CellBits = 3

const cellMask = 1<<CellBits - 1

// Packed cell codes. The codes for the two 1x2 shapes are deliberately
// swapped relative to the board codes; boardToCell and cellToBoard are the
// single source of truth for the mapping. Do not assume the two numberings
// agree.
const (
	CellEmpty      uint8 = 0
	CellSoldier    uint8 = 1
	CellVertical   uint8 = 2
	CellHorizontal uint8 = 3
	CellGeneral    uint8 = 4

	// CellInvalid is returned by Cell for out-of-range coordinates. It is
	// never a valid packed code.
	CellInvalid uint8 = 7
)

// boardToCell and cellToBoard hold the board<->packed code bijection. The
// packed side is the persistence format; the board side is what callers see.
var (
	boardToCell = [General + 1]uint8{
		Empty:      CellEmpty,
		Soldier:    CellSoldier,
		Horizontal: CellHorizontal,
		Vertical:   CellVertical,
		General:    CellGeneral,
	}
	cellToBoard = [CellGeneral + 1]int{
		CellEmpty:      Empty,
		CellSoldier:    Soldier,
		CellVertical:   Vertical,
		CellHorizontal: Horizontal,
		CellGeneral:    General,
	}
)

// ErrInvalidLayout reports a layout value whose bit groups do not decode to
// known cell codes, or a wire string that is not a packed layout at all.
// It signals corrupted or foreign persisted data and is never coerced.
var ErrInvalidLayout = errors.New("invalid layout value")

// cellOffset returns the bit offset of cell (r,c).
func cellOffset(r, c int) uint {
	return uint(CellBits * (r*Cols + c))
}

// Pack encodes a board into its packed layout. It requires exact dimensions
// and known piece codes and fails otherwise; it does not check piece
// footprints (see Board.Validate).
func Pack(b Board) (Layout, error) {
	if err := b.checkShape(); err != nil {
		return 0, err
	}
	var l Layout
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			l |= Layout(boardToCell[b[r][c]]) << cellOffset(r, c)
		}
	}
	return l, nil
}

// Unpack decodes a layout back into a board. Any 3-bit group outside the
// known cell codes fails with ErrInvalidLayout.
func (l Layout) Unpack() (Board, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	b := New()
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b[r][c] = cellToBoard[l.cell(r, c)]
		}
	}
	return b, nil
}

// check verifies every cell group decodes and no bits sit above the packed
// region.
func (l Layout) check() error {
	if l >= 1<<(CellBits*Cells) {
		return fmt.Errorf("%w: %d overflows %d cells", ErrInvalidLayout, uint64(l), Cells)
	}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if l.cell(r, c) > uint64(CellGeneral) {
				return fmt.Errorf("%w: code %d at (%d,%d)", ErrInvalidLayout, l.cell(r, c), r, c)
			}
		}
	}
	return nil
}

// cell extracts the raw 3-bit group at (r,c) without bounds checking.
func (l Layout) cell(r, c int) uint64 {
	return uint64(l>>cellOffset(r, c)) & cellMask
}

// Cell returns the packed code at (r,c), or CellInvalid when the
// coordinates are off the board.
func (l Layout) Cell(r, c int) uint8 {
	if r < 0 || r >= Rows || c < 0 || c >= Cols {
		return CellInvalid
	}
	return uint8(l.cell(r, c))
}

// WithCell returns a copy of l with the cell at (r,c) set to code.
// Out-of-range coordinates return l unchanged. Callers are responsible for
// keeping piece footprints intact; search code uses this to shift whole
// footprints cell by cell.
func (l Layout) WithCell(r, c int, code uint8) Layout {
	if r < 0 || r >= Rows || c < 0 || c >= Cols {
		return l
	}
	off := cellOffset(r, c)
	return l&^(cellMask<<off) | Layout(code)<<off
}

// Goal cells: the 2x2 piece wins when its bottom edge covers these two
// cells, reaching the escape notch at the bottom center.
const (
	GoalRow = Rows - 1
	GoalCol = 1
)

// IsGoal reports whether both goal cells hold the 2x2 code. With intact
// footprints this is exactly "the 2x2 occupies rows 3-4, columns 1-2".
func (l Layout) IsGoal() bool {
	return l.Cell(GoalRow, GoalCol) == CellGeneral && l.Cell(GoalRow, GoalCol+1) == CellGeneral
}

// GeneralTopLeft locates the 2x2 piece's top-left cell by row-major scan.
// ok is false when the layout holds no 2x2 piece.
func (l Layout) GeneralTopLeft() (r, c int, ok bool) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if l.cell(r, c) == uint64(CellGeneral) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// String renders the layout as its decimal wire form, the format persisted
// by saves and exported over the API.
func (l Layout) String() string {
	return strconv.FormatUint(uint64(l), 10)
}

// ParseLayout parses a decimal wire string back into a layout, rejecting
// values that do not decode to known cell codes.
func ParseLayout(s string) (Layout, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
	}
	l := Layout(v)
	if err := l.check(); err != nil {
		return 0, err
	}
	return l, nil
}
