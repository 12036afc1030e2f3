package service

import (
	"time"

	"github.com/giraffishh/klotski/game/engine"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	GameConfig     *engine.PuzzleConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation. An illegal move is
// a result with Success false, not an error; the session is untouched
// and Message names what blocked it.
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "solved", "undo", "redo", "reset", "solve_complete"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
	Pieces      int    `json:"pieces"`
	Empties     int    `json:"empties"`
}

// ExportResult carries a session's current board in shareable forms
type ExportResult struct {
	SessionID string `json:"session_id"`
	Layout    string `json:"layout"`     // decimal layout string
	ShareCode string `json:"share_code"` // base58 share code
	MoveCount int    `json:"move_count"`
}

// SolveStatus is the lifecycle phase of an async solve job
type SolveStatus string

const (
	SolveStatusSolving    SolveStatus = "solving"
	SolveStatusReady      SolveStatus = "ready"
	SolveStatusUnsolvable SolveStatus = "unsolvable"
	SolveStatusFailed     SolveStatus = "failed"
)

// SolveJob tracks one async solve. Path holds the remaining boards as
// decimal layout strings, current board first, once Status is ready;
// MovesRequired is len(Path)-1 then, -1 otherwise.
type SolveJob struct {
	ID            string      `json:"id"`
	SessionID     string      `json:"session_id"`
	Status        SolveStatus `json:"status"`
	Path          []string    `json:"path,omitempty"`
	MovesRequired int         `json:"moves_required"`
	Error         string      `json:"error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}
