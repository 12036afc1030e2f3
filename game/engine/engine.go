package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/solver"
)

var (
	ErrAlreadySolved = errors.New("puzzle already solved")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Engine provides the main interface for puzzle session operations
type Engine interface {
	// State and configuration
	GetState() *GameState
	GetConfig() *PuzzleConfig
	Reset() *GameState

	// Moves
	MovePiece(row, col int, direction solver.Direction) (*GameState, error)
	Undo() (*GameState, error)
	Redo() (*GameState, error)

	// History
	GetMoveHistory() []MoveRecord

	// Solver access
	GetHint() (*Hint, error)
	GetSolution() ([]board.Layout, error)
	SolvePath() ([]board.Layout, error)

	// Persistence support
	CurrentLayout() board.Layout
	InitialLayout() board.Layout
	UndoLayouts() []board.Layout
	RedoLayouts() []board.Layout
	ExportLayout() string
	RestoreState(current board.Layout, undoStack, redoStack []board.Layout, history []MoveRecord) error
}

// GameEngine implements the Engine interface for a single session. All
// methods are safe for concurrent use; the first GetHint or GetSolution
// call runs the exhaustive solve under the engine lock and later calls
// reuse its index.
type GameEngine struct {
	mu        sync.RWMutex
	config    *PuzzleConfig
	initial   board.Layout
	current   board.Layout
	undoStack []board.Layout
	redoStack []board.Layout
	history   []MoveRecord
	message   string

	finder    *solver.PathFinder
	finderErr error
}

// NewEngine creates a new game engine for the provided puzzle
func NewEngine(config *PuzzleConfig) (*GameEngine, error) {
	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}
	initial, err := board.Pack(config.Board)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		config:  config,
		initial: initial,
		current: initial,
		message: fmt.Sprintf("Started %s.", config.Name),
	}, nil
}

// NewEngineWithDefaults creates a new game engine on the classic puzzle
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultPuzzle())
	if err != nil {
		// DefaultPuzzle is a fixed valid board
		panic(err)
	}
	return e
}

// GetState returns a snapshot of the current session state
func (e *GameEngine) GetState() *GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// GetConfig returns the puzzle configuration this session was created from
func (e *GameEngine) GetConfig() *PuzzleConfig {
	return e.config
}

// Reset returns the session to its initial board. The undo and redo
// stacks are cleared; the cumulative move history is kept.
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = e.initial
	e.undoStack = nil
	e.redoStack = nil
	e.message = "Board reset."
	return e.snapshotLocked()
}

// GetMoveHistory returns a copy of the cumulative move history
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	history := make([]MoveRecord, len(e.history))
	copy(history, e.history)
	return history
}

// CurrentLayout returns the current board in wire form
func (e *GameEngine) CurrentLayout() board.Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// InitialLayout returns the starting board in wire form
func (e *GameEngine) InitialLayout() board.Layout {
	return e.initial
}

// UndoLayouts returns a copy of the undo stack, oldest board first
func (e *GameEngine) UndoLayouts() []board.Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]board.Layout(nil), e.undoStack...)
}

// RedoLayouts returns a copy of the redo stack in its stored order
func (e *GameEngine) RedoLayouts() []board.Layout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]board.Layout(nil), e.redoStack...)
}

// ExportLayout returns the current board as a decimal layout string,
// suitable for sharing or for ParseLayout on another host
func (e *GameEngine) ExportLayout() string {
	return e.CurrentLayout().String()
}

// RestoreState replaces the current board, both stacks, and the
// cumulative history, used when loading a persisted session. The initial
// layout stays as configured.
func (e *GameEngine) RestoreState(current board.Layout, undoStack, redoStack []board.Layout, history []MoveRecord) error {
	if _, err := current.Unpack(); err != nil {
		return fmt.Errorf("restore current layout: %w", err)
	}
	for _, l := range undoStack {
		if _, err := l.Unpack(); err != nil {
			return fmt.Errorf("restore undo stack: %w", err)
		}
	}
	for _, l := range redoStack {
		if _, err := l.Unpack(); err != nil {
			return fmt.Errorf("restore redo stack: %w", err)
		}
	}
	for _, rec := range history {
		if _, err := board.ParseLayout(rec.Layout); err != nil {
			return fmt.Errorf("restore history move %d: %w", rec.MoveNumber, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = current
	e.undoStack = append([]board.Layout(nil), undoStack...)
	e.redoStack = append([]board.Layout(nil), redoStack...)
	e.history = append([]MoveRecord(nil), history...)
	e.message = "Session restored."
	return nil
}

// snapshotLocked builds a GameState from the current fields. Callers hold
// at least the read lock.
func (e *GameEngine) snapshotLocked() *GameState {
	// current is only ever produced by Pack or TryMove, so it unpacks
	b, _ := e.current.Unpack()

	minMoves := -1
	if e.finder != nil && e.finder.Indexed() {
		if path, err := e.finder.QueryShortestPathFrom(e.current); err == nil && len(path) > 0 {
			minMoves = len(path) - 1
		}
	}

	solved := e.current.IsGoal()
	status := StatusPlaying
	if solved {
		status = StatusSolved
	}

	return &GameState{
		Board:          b,
		Layout:         e.current.String(),
		ConfigName:     e.config.Name,
		MoveCount:      len(e.undoStack),
		TotalMoves:     len(e.history),
		Solved:         solved,
		CanUndo:        len(e.undoStack) > 0,
		CanRedo:        len(e.redoStack) > 0,
		MinMovesToGoal: minMoves,
		Status:         status,
		Message:        e.message,
	}
}
