package session

import (
	"time"

	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted
// sessions. Boards are stored as decimal layout strings; a string that
// does not parse marks the whole file as corrupt and the load fails.
type PersistedSessionData struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	InitialLayout  string              `json:"initial_layout"`
	CurrentLayout  string              `json:"current_layout"`
	UndoStack      []string            `json:"undo_stack"`
	RedoStack      []string            `json:"redo_stack"`
	MoveCount      int                 `json:"move_count"`
	History        []engine.MoveRecord `json:"history,omitempty"`
}
