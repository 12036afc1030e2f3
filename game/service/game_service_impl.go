package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/solver"
)

// completedJobMaxAge is how long a finished solve job stays pollable.
const completedJobMaxAge = time.Hour

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	mu          sync.RWMutex

	jobMu sync.RWMutex
	jobs  map[string]*SolveJob
}

// NewGameService creates a new game service instance. The broadcaster
// may be nil; solve-completion events are then dropped.
func NewGameService(sessions SessionManager, configs ConfigManager, broadcaster Broadcaster) GameService {
	return &gameServiceImpl{
		sessions:    sessions,
		configs:     configs,
		broadcaster: broadcaster,
		jobs:        make(map[string]*SolveJob),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "classic"
	if configName == "" {
		return "classic"
	}
	return configName
}

// sessionInfo builds the API view of a session. ConfigName carries the
// catalog identifier, not the display name.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new puzzle session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.PuzzleConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the input configName if provided, otherwise look up the
	// config_id by display name
	info := s.sessionInfo(session)
	if configName != "" {
		info.ConfigName = configName
	}
	return info, nil
}

// CreateSessionFromShareCode creates a session from a base58 share code
func (s *gameServiceImpl) CreateSessionFromShareCode(ctx context.Context, code string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout, err := board.ParseShareCode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid share code: %w", err)
	}
	b, err := layout.Unpack()
	if err != nil {
		return nil, fmt.Errorf("invalid share code: %w", err)
	}

	config := &engine.PuzzleConfig{
		Name:        "shared",
		Description: fmt.Sprintf("Imported from share code %s", code),
		Board:       b,
	}

	// Session creation validates the board; a code carrying broken
	// pieces is rejected here
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("invalid share code: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session and its solve jobs
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobMu.Lock()
	for id, job := range s.jobs {
		if job.SessionID == sessionID {
			delete(s.jobs, id)
		}
	}
	s.jobMu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move slides the piece covering (row, col) one cell in the given
// direction. An illegal move comes back as a failed MoveResult, not an
// error; the error path is for unknown sessions and directions.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, row, col int, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Get session
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	// Collect events
	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Board reset to initial layout",
			Timestamp: time.Now(),
		})
	}

	dir, err := solver.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	// Execute move
	var result *MoveResult
	state, err := sess.Engine.MovePiece(row, col, dir)
	if err != nil {
		// The board is untouched; report what blocked the move
		result = &MoveResult{
			Success:   false,
			GameState: sess.Engine.GetState(),
			Message:   err.Error(),
			Events:    events,
		}
	} else {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   state.Message,
			Timestamp: time.Now(),
		})
		if state.Solved {
			events = append(events, GameEvent{
				Type:      "solved",
				Message:   fmt.Sprintf("The general escaped in %d moves!", state.MoveCount),
				Timestamp: time.Now(),
			})
		}
		result = &MoveResult{
			Success:   true,
			GameState: state,
			Message:   state.Message,
			Events:    events,
		}
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to persist session after move")
	}

	return result, nil
}

// Undo steps the session back to the board before the last move
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state, err := sess.Engine.Undo()
	if err != nil {
		return nil, err
	}

	// Auto-save session after undo
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to persist session after undo")
	}

	return state, nil
}

// Redo reapplies the most recently undone move
func (s *gameServiceImpl) Redo(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state, err := sess.Engine.Redo()
	if err != nil {
		return nil, err
	}

	// Auto-save session after redo
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to persist session after redo")
	}

	return state, nil
}

// Reset returns a session to its initial board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to persist session after reset")
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveRecord
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveRecord{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetHint returns the next move on a shortest path from the session's
// current board. The first call on a session runs the exhaustive solve.
func (s *gameServiceImpl) GetHint(ctx context.Context, sessionID string) (*engine.Hint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetHint()
}

// ExportLayout returns the session's current board as a decimal layout
// string and a base58 share code
func (s *gameServiceImpl) ExportLayout(ctx context.Context, sessionID string) (*ExportResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	layout := sess.Engine.CurrentLayout()
	return &ExportResult{
		SessionID: sess.ID,
		Layout:    layout.String(),
		ShareCode: layout.ShareCode(),
		MoveCount: sess.Engine.GetState().MoveCount,
	}, nil
}

// StartSolve kicks off an async shortest-path solve from the session's
// current board. The returned job is a snapshot in status "solving";
// GetSolveJob polls it, and subscribers of the session receive a
// solve_complete event when the worker finishes.
func (s *gameServiceImpl) StartSolve(ctx context.Context, sessionID string) (*SolveJob, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	job := &SolveJob{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Status:        SolveStatusSolving,
		MovesRequired: -1,
		CreatedAt:     time.Now(),
	}

	s.jobMu.Lock()
	s.pruneJobsLocked(time.Now())
	s.jobs[job.ID] = job
	snapshot := *job
	s.jobMu.Unlock()

	go s.runSolve(job.ID, sess)

	return &snapshot, nil
}

// GetSolveJob polls an async solve job. Jobs are scoped to their
// session; a job id under the wrong session reads as not found.
func (s *gameServiceImpl) GetSolveJob(ctx context.Context, sessionID, jobID string) (*SolveJob, error) {
	s.jobMu.RLock()
	defer s.jobMu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok || job.SessionID != sessionID {
		return nil, ErrJobNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// runSolve is the solve worker. It blocks on the engine's exhaustive
// solve, fills in the job, and pushes the outcome to the session's
// subscribers.
func (s *gameServiceImpl) runSolve(jobID string, sess *Session) {
	path, err := sess.Engine.SolvePath()

	s.jobMu.Lock()
	job, ok := s.jobs[jobID]
	if !ok {
		// Session deleted while solving
		s.jobMu.Unlock()
		return
	}
	now := time.Now()
	job.CompletedAt = &now
	switch {
	case err != nil:
		job.Status = SolveStatusFailed
		job.Error = err.Error()
	case len(path) == 0:
		job.Status = SolveStatusUnsolvable
	default:
		job.Status = SolveStatusReady
		job.Path = layoutStrings(path)
		job.MovesRequired = len(path) - 1
	}
	snapshot := *job
	s.jobMu.Unlock()

	log.Debug().
		Str("session", snapshot.SessionID).
		Str("job", snapshot.ID).
		Str("status", string(snapshot.Status)).
		Int("moves", snapshot.MovesRequired).
		Msg("Solve job finished")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(snapshot.SessionID, "solve_complete", &snapshot)
	}
}

// pruneJobsLocked drops completed jobs past their poll window. Callers
// hold jobMu.
func (s *gameServiceImpl) pruneJobsLocked(now time.Time) {
	for id, job := range s.jobs {
		if job.CompletedAt != nil && now.Sub(*job.CompletedAt) > completedJobMaxAge {
			delete(s.jobs, id)
		}
	}
}

// ListConfigs returns available puzzle configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func layoutStrings(path []board.Layout) []string {
	out := make([]string, len(path))
	for i, l := range path {
		out[i] = l.String()
	}
	return out
}
