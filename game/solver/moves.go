package solver

import (
	"errors"
	"fmt"

	"github.com/giraffishh/klotski/game/board"
)

// Direction of a single piece move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

// Per-direction row and column deltas, indexed by Direction.
var (
	deltaRow = [4]int{-1, 1, 0, 0}
	deltaCol = [4]int{0, 0, -1, 1}
)

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the direction that reverses d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// ParseDirection maps the API's direction strings onto Direction values.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if s == name {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Move application errors.
var (
	ErrUnknownDirection = errors.New("unknown direction")
	ErrOutOfBounds      = errors.New("cell out of bounds")
	ErrEmptyCell        = errors.New("no piece at cell")
	ErrBlockedMove      = errors.New("move is blocked")
)

// footprint is one resolved piece: its packed code and the cells it covers,
// in row-major order starting at the cell the scan attributed it from.
type footprint struct {
	code  uint8
	n     int
	cells [4][2]int
}

func (fp *footprint) contains(r, c int) bool {
	for i := 0; i < fp.n; i++ {
		if fp.cells[i][0] == r && fp.cells[i][1] == c {
			return true
		}
	}
	return false
}

// scanPieces walks the layout row-major, attributing cells to pieces, and
// calls fn for every intact piece. Returning false from fn stops the scan.
// A cell whose expected footprint neighbors are missing or mismatched is
// skipped without attribution, so malformed layouts degrade to fewer
// pieces instead of a crash.
func scanPieces(l board.Layout, fn func(fp footprint) bool) {
	var seen uint32
	mark := func(r, c int) { seen |= 1 << uint(r*board.Cols+c) }
	marked := func(r, c int) bool { return seen&(1<<uint(r*board.Cols+c)) != 0 }

	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			if marked(r, c) {
				continue
			}
			code := l.Cell(r, c)
			if code == board.CellEmpty {
				continue
			}

			fp := footprint{code: code}
			switch code {
			case board.CellSoldier:
				fp.n = 1
				fp.cells[0] = [2]int{r, c}
			case board.CellVertical:
				if l.Cell(r+1, c) != code {
					mark(r, c)
					continue
				}
				fp.n = 2
				fp.cells[0] = [2]int{r, c}
				fp.cells[1] = [2]int{r + 1, c}
			case board.CellHorizontal:
				if l.Cell(r, c+1) != code {
					mark(r, c)
					continue
				}
				fp.n = 2
				fp.cells[0] = [2]int{r, c}
				fp.cells[1] = [2]int{r, c + 1}
			case board.CellGeneral:
				if l.Cell(r, c+1) != code || l.Cell(r+1, c) != code || l.Cell(r+1, c+1) != code {
					mark(r, c)
					continue
				}
				fp.n = 4
				fp.cells[0] = [2]int{r, c}
				fp.cells[1] = [2]int{r, c + 1}
				fp.cells[2] = [2]int{r + 1, c}
				fp.cells[3] = [2]int{r + 1, c + 1}
			default:
				// Unknown code in a foreign layout; leave it in place.
				mark(r, c)
				continue
			}

			for i := 0; i < fp.n; i++ {
				mark(fp.cells[i][0], fp.cells[i][1])
			}
			if !fn(fp) {
				return
			}
		}
	}
}

// shift moves fp one cell in direction d. ok is false when any target cell
// is off the board or occupied by another piece.
func shift(l board.Layout, fp footprint, d Direction) (board.Layout, bool) {
	dr, dc := deltaRow[d], deltaCol[d]
	for i := 0; i < fp.n; i++ {
		tr, tc := fp.cells[i][0]+dr, fp.cells[i][1]+dc
		if fp.contains(tr, tc) {
			continue
		}
		if l.Cell(tr, tc) != board.CellEmpty {
			return 0, false
		}
	}

	next := l
	for i := 0; i < fp.n; i++ {
		next = next.WithCell(fp.cells[i][0], fp.cells[i][1], board.CellEmpty)
	}
	for i := 0; i < fp.n; i++ {
		next = next.WithCell(fp.cells[i][0]+dr, fp.cells[i][1]+dc, fp.code)
	}
	return next, true
}

// Successors returns every layout exactly one legal move away from l. Each
// (piece, direction) pair contributes at most one successor and no two
// results are identical. The order is deterministic: pieces row-major,
// directions up, down, left, right.
func Successors(l board.Layout) []board.Layout {
	out := make([]board.Layout, 0, 8)
	scanPieces(l, func(fp footprint) bool {
		for d := Up; d <= Right; d++ {
			if next, ok := shift(l, fp, d); ok {
				out = append(out, next)
			}
		}
		return true
	})
	return out
}

// TryMove applies one player move: the piece covering (r,c) shifts one cell
// in direction d. The cell may be any cell of the piece, not just its
// top-left. Fails with ErrOutOfBounds, ErrEmptyCell, ErrBlockedMove, or
// board.ErrBrokenPiece when the cell's piece has no intact footprint.
func TryMove(l board.Layout, r, c int, d Direction) (board.Layout, error) {
	if d < Up || d > Right {
		return 0, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	if r < 0 || r >= board.Rows || c < 0 || c >= board.Cols {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, r, c)
	}
	if l.Cell(r, c) == board.CellEmpty {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrEmptyCell, r, c)
	}

	var target footprint
	found := false
	scanPieces(l, func(fp footprint) bool {
		if fp.contains(r, c) {
			target = fp
			found = true
			return false
		}
		return true
	})
	if !found {
		return 0, fmt.Errorf("%w: cell (%d,%d)", board.ErrBrokenPiece, r, c)
	}

	next, ok := shift(l, target, d)
	if !ok {
		return 0, fmt.Errorf("%w: piece at (%d,%d) cannot move %s", ErrBlockedMove, r, c, d)
	}
	return next, nil
}
