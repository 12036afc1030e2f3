package engine

import (
	"fmt"
	"time"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/solver"
)

// MovePiece slides the piece covering (row, col) one cell in the given
// direction. Illegal moves return an error from the solver package and
// leave the session untouched; moving after the puzzle is solved returns
// ErrAlreadySolved.
func (e *GameEngine) MovePiece(row, col int, direction solver.Direction) (*GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.IsGoal() {
		return nil, ErrAlreadySolved
	}

	next, err := solver.TryMove(e.current, row, col, direction)
	if err != nil {
		return nil, err
	}

	piece := pieceName(e.current.Cell(row, col))
	e.undoStack = append(e.undoStack, e.current)
	e.redoStack = nil
	e.current = next
	e.appendHistoryLocked(row, col, direction, piece)

	if e.current.IsGoal() {
		e.message = fmt.Sprintf("Solved in %d moves!", len(e.undoStack))
	} else {
		e.message = fmt.Sprintf("Moved %s %s.", piece, direction)
	}

	return e.snapshotLocked(), nil
}

// Undo steps back to the board before the last move
func (e *GameEngine) Undo() (*GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	e.redoStack = append(e.redoStack, e.current)
	e.current = e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.message = fmt.Sprintf("Undid move %d.", len(e.undoStack)+1)

	return e.snapshotLocked(), nil
}

// Redo reapplies the most recently undone move
func (e *GameEngine) Redo() (*GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	e.undoStack = append(e.undoStack, e.current)
	e.current = e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.message = fmt.Sprintf("Redid move %d.", len(e.undoStack))

	return e.snapshotLocked(), nil
}

// appendHistoryLocked records a successful move in the cumulative history
func (e *GameEngine) appendHistoryLocked(row, col int, direction solver.Direction, piece string) {
	e.history = append(e.history, MoveRecord{
		Row:        row,
		Col:        col,
		Direction:  direction.String(),
		Piece:      piece,
		Layout:     e.current.String(),
		MoveNumber: len(e.history) + 1,
		Timestamp:  time.Now().Unix(),
	})
}

// findMove recovers the single move turning from into to. Both layouts
// must differ by exactly one legal move; the returned cell is the moved
// piece's topmost-leftmost cell.
func findMove(from, to board.Layout) (row, col int, direction solver.Direction, ok bool) {
	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			for d := solver.Up; d <= solver.Right; d++ {
				if next, err := solver.TryMove(from, r, c, d); err == nil && next == to {
					return r, c, d, true
				}
			}
		}
	}
	return 0, 0, 0, false
}
