package engine

import "github.com/giraffishh/klotski/game/board"

// Status is the lifecycle phase of a puzzle session
type Status string

const (
	StatusPlaying Status = "playing"
	StatusSolved  Status = "solved"
)

// PuzzleConfig describes one puzzle as loaded from JSON: a name, the
// starting board, and an optional difficulty label
type PuzzleConfig struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Difficulty  string      `json:"difficulty,omitempty"`
	Board       board.Board `json:"board"`
}

// GameState is the snapshot returned by every engine operation. It is a
// value copy: mutating it never touches the engine.
type GameState struct {
	Board      board.Board `json:"board"`
	Layout     string      `json:"layout"`
	ConfigName string      `json:"config_name"`

	// MoveCount counts moves from the start to the current board along
	// the undo chain; TotalMoves counts every move ever made in the
	// session, undone or not.
	MoveCount  int `json:"move_count"`
	TotalMoves int `json:"total_moves"`

	Solved  bool `json:"solved"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`

	// MinMovesToGoal is the shortest remaining solution length, or -1
	// when the solver has not run yet or no solution exists.
	MinMovesToGoal int `json:"min_moves_to_goal"`

	Status  Status `json:"status"`
	Message string `json:"message"`
}

// MoveRecord is one successful move in the session's cumulative history.
// Undo and reset do not remove records; the history is an audit log, not
// the undo stack.
type MoveRecord struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Direction  string `json:"direction"`
	Piece      string `json:"piece"`
	Layout     string `json:"layout"`
	MoveNumber int    `json:"move_number"`
	Timestamp  int64  `json:"timestamp"`
}

// Hint names the next move on a shortest path from the current board.
type Hint struct {
	Row            int    `json:"row"`
	Col            int    `json:"col"`
	Direction      string `json:"direction"`
	Piece          string `json:"piece"`
	MovesRemaining int    `json:"moves_remaining"`
}
