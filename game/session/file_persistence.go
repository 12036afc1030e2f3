package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/service"
)

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	// Create sessions directory if it doesn't exist
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	// Get config ID from display name
	configID, err := fp.getConfigIDFromName(session.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	eng := session.Engine
	undoStack := eng.UndoLayouts()
	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID, // Store config ID, not display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		InitialLayout:  eng.InitialLayout().String(),
		CurrentLayout:  eng.CurrentLayout().String(),
		UndoStack:      layoutsToStrings(undoStack),
		RedoStack:      layoutsToStrings(eng.RedoLayouts()),
		MoveCount:      len(undoStack),
		History:        eng.GetMoveHistory(),
	}

	// Marshal to JSON with indentation for readability
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Write to file
	filePath := fp.getFilePath(session.ID)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load retrieves a session from a JSON file. Layout strings that do not
// parse fail the load; corrupted files are never coerced into sessions.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	// Read file
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	// Unmarshal JSON
	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	// Decode the persisted boards
	initial, err := board.ParseLayout(data.InitialLayout)
	if err != nil {
		return nil, fmt.Errorf("invalid initial layout: %w", err)
	}
	current, err := board.ParseLayout(data.CurrentLayout)
	if err != nil {
		return nil, fmt.Errorf("invalid current layout: %w", err)
	}
	undoStack, err := parseLayouts(data.UndoStack)
	if err != nil {
		return nil, fmt.Errorf("invalid undo stack: %w", err)
	}
	redoStack, err := parseLayouts(data.RedoStack)
	if err != nil {
		return nil, fmt.Errorf("invalid redo stack: %w", err)
	}

	// Resolve the puzzle configuration
	gameConfig, err := fp.resolveConfig(data.ConfigName, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config '%s': %w", data.ConfigName, err)
	}

	// Create game engine with configuration
	gameEngine, err := engine.NewEngine(gameConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	// Restore game state
	if err := gameEngine.RestoreState(current, undoStack, redoStack, data.History); err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}

	// Create session
	session := &service.Session{
		ID:             data.ID,
		Engine:         gameEngine,
		Config:         gameConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}

	return session, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	filePath := fp.getFilePath(id)

	// Check if file exists
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	// Remove file
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			// Remove .json extension to get session ID
			sessionID := strings.TrimSuffix(name, ".json")
			sessionIDs = append(sessionIDs, sessionID)
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	filePath := fp.getFilePath(id)
	_, err := os.Stat(filePath)
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}

// getConfigIDFromName returns the config ID (filename without extension) from display name
func (fp *FilePersistence) getConfigIDFromName(displayName string) (string, error) {
	configs, err := fp.configManager.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list configs: %w", err)
	}

	for _, config := range configs {
		if config.Name == displayName {
			return config.ConfigID, nil
		}
	}

	// If not found, assume the displayName is already the config ID
	return displayName, nil
}

// resolveConfig maps a persisted config name back to a catalog entry.
// Sessions imported from share codes have no catalog entry, and catalog
// files can change between runs; in both cases the persisted initial
// layout is the truth and the config is rebuilt from it.
func (fp *FilePersistence) resolveConfig(name string, initial board.Layout) (*engine.PuzzleConfig, error) {
	if config, err := fp.configManager.LoadConfig(name); err == nil {
		if packed, err := board.Pack(config.Board); err == nil && packed == initial {
			return config, nil
		}
	}

	b, err := initial.Unpack()
	if err != nil {
		return nil, err
	}
	return &engine.PuzzleConfig{
		Name:        name,
		Description: "Restored from session file",
		Board:       b,
	}, nil
}

func layoutsToStrings(layouts []board.Layout) []string {
	out := make([]string, len(layouts))
	for i, l := range layouts {
		out[i] = l.String()
	}
	return out
}

func parseLayouts(strs []string) ([]board.Layout, error) {
	out := make([]board.Layout, len(strs))
	for i, s := range strs {
		l, err := board.ParseLayout(s)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}
