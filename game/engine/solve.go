package engine

import (
	"fmt"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/solver"
)

// ensureSolverLocked runs the one-time exhaustive solve. Callers hold the
// write lock; the result, success or failure, is memoized for the session.
func (e *GameEngine) ensureSolverLocked() {
	if e.finder != nil {
		return
	}
	e.finder = solver.NewPathFinder(e.initial)
	_, e.finderErr = e.finder.ComputeInitialSolution()
}

// GetHint returns the next move on a shortest path from the current
// board. A solved puzzle returns ErrAlreadySolved; a board with no
// solution returns an error wrapping solver.ErrNoSolution.
func (e *GameEngine) GetHint() (*Hint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.IsGoal() {
		return nil, ErrAlreadySolved
	}
	e.ensureSolverLocked()

	path, err := e.finder.QueryShortestPathFrom(e.current)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("hint: %w", solver.ErrNoSolution)
	}

	// A cached answer may be oriented as the mirror twin of the current
	// board; flip it back before naming the move.
	from, to := path[0], path[1]
	if from != e.current {
		from, to = from.Mirror(), to.Mirror()
	}
	row, col, direction, ok := findMove(from, to)
	if !ok {
		return nil, fmt.Errorf("hint: consecutive boards are not one move apart")
	}

	return &Hint{
		Row:            row,
		Col:            col,
		Direction:      direction.String(),
		Piece:          pieceName(e.current.Cell(row, col)),
		MovesRemaining: len(path) - 1,
	}, nil
}

// GetSolution returns the optimal board sequence from the initial layout
// to the goal, both inclusive. The first call on a session pays for the
// exhaustive solve; an unsolvable puzzle returns solver.ErrNoSolution.
func (e *GameEngine) GetSolution() ([]board.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureSolverLocked()
	if e.finderErr != nil {
		return nil, e.finderErr
	}
	return e.finder.ComputeInitialSolution()
}

// SolvePath returns a shortest board sequence from the current board to
// the goal, both inclusive; a board already at the goal yields a
// single-entry path. An empty path with a nil error means the goal is
// unreachable from here. The returned boards may follow the mirror twin
// of the current board; the move count is identical either way.
func (e *GameEngine) SolvePath() ([]board.Layout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureSolverLocked()
	return e.finder.QueryShortestPathFrom(e.current)
}
