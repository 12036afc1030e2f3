package service

import (
	"context"
	"errors"
	"time"

	"github.com/giraffishh/klotski/game/engine"
)

// ErrJobNotFound reports a solve-job lookup that matched no job for the
// session.
var ErrJobNotFound = errors.New("solve job not found")

// GameService defines all puzzle-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	CreateSessionFromShareCode(ctx context.Context, code string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, row, col int, direction string, reset bool) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*engine.GameState, error)
	Redo(ctx context.Context, sessionID string) (*engine.GameState, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetHint(ctx context.Context, sessionID string) (*engine.Hint, error)
	ExportLayout(ctx context.Context, sessionID string) (*ExportResult, error)

	// Solver
	StartSolve(ctx context.Context, sessionID string) (*SolveJob, error)
	GetSolveJob(ctx context.Context, sessionID, jobID string) (*SolveJob, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.PuzzleConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.PuzzleConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles puzzle configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.PuzzleConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.PuzzleConfig
	SaveConfig(name string, config *engine.PuzzleConfig) error
}

// Broadcaster pushes an event to every live subscriber of a session. The
// WebSocket hub implements it; a nil broadcaster drops events, which
// suits transports without push.
type Broadcaster interface {
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Session represents an active puzzle session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.PuzzleConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
