package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giraffishh/klotski/game/config"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/service"
	"github.com/giraffishh/klotski/game/solver"
)

// newTestConfigManager builds a catalog over a fresh directory, which
// seeds the classic puzzle as the default.
func newTestConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	dir, err := os.MkdirTemp("", "session_configs_*")
	if err != nil {
		t.Fatalf("Failed to create temp config directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	configManager, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return configManager
}

func TestFilePersistence(t *testing.T) {
	// Create temporary directory for test sessions
	tempDir, err := os.MkdirTemp("", "session_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configManager := newTestConfigManager(t)

	// Create persistence layer
	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	// Create test session
	gameConfig := configManager.GetDefault()
	eng, err := engine.NewEngine(gameConfig)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	session := &service.Session{
		ID:             "test1",
		Engine:         eng,
		Config:         gameConfig,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	t.Run("Save and Load Session", func(t *testing.T) {
		// Save session
		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		// Check file exists
		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		// Load session
		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		// Verify session data
		if loadedSession.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loadedSession.ID)
		}
		if loadedSession.Config.Name != session.Config.Name {
			t.Errorf("Expected config name %s, got %s", session.Config.Name, loadedSession.Config.Name)
		}
		if loadedSession.Engine.CurrentLayout() != session.Engine.CurrentLayout() {
			t.Errorf("Expected layout %s, got %s", session.Engine.CurrentLayout(), loadedSession.Engine.CurrentLayout())
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		// Slide the bottom-left soldier into the gap to change state
		if _, err := session.Engine.MovePiece(4, 0, solver.Right); err != nil {
			t.Fatalf("Failed to move: %v", err)
		}

		// Save updated session
		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		// Load and verify state was persisted
		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		if loadedSession.Engine.CurrentLayout() != session.Engine.CurrentLayout() {
			t.Errorf("Current board not persisted correctly")
		}
		if len(loadedSession.Engine.GetMoveHistory()) != len(session.Engine.GetMoveHistory()) {
			t.Errorf("Move history not persisted correctly")
		}

		// The restored session can undo the persisted move
		state, err := loadedSession.Engine.Undo()
		if err != nil {
			t.Fatalf("Failed to undo on restored session: %v", err)
		}
		if state.Layout != session.Engine.InitialLayout().String() {
			t.Errorf("Undo on restored session reached %s, want initial", state.Layout)
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		// Create another session
		session2 := &service.Session{
			ID:             "test2",
			Engine:         eng,
			Config:         gameConfig,
			CreatedAt:      time.Now(),
			LastAccessedAt: time.Now(),
		}
		err := persistence.Save(session2)
		if err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		// List all sessions
		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		if len(sessionIDs) < 2 {
			t.Errorf("Expected at least 2 sessions, got %d", len(sessionIDs))
		}

		// Check that our sessions are in the list
		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Error("Expected sessions not found in list")
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		// Delete session
		err := persistence.Delete("test2")
		if err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		// Verify it no longer exists
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}

		// Verify we can't load it
		_, err = persistence.Load("test2")
		if err == nil {
			t.Error("Should not be able to load deleted session")
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		// Try to load non-existent session
		_, err := persistence.Load("nonexistent")
		if err == nil {
			t.Error("Should get error when loading non-existent session")
		}

		// Try to delete non-existent session
		err = persistence.Delete("nonexistent")
		if err == nil {
			t.Error("Should get error when deleting non-existent session")
		}

		// Try to save nil session
		err = persistence.Save(nil)
		if err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceCorruptLayouts(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "session_corrupt_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configManager := newTestConfigManager(t)
	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	classic := configManager.GetDefault()
	eng, err := engine.NewEngine(classic)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	good := eng.InitialLayout().String()

	writeSessionFile := func(t *testing.T, id, body string) {
		t.Helper()
		path := filepath.Join(tempDir, id+".json")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write session file: %v", err)
		}
	}

	t.Run("corrupt current layout", func(t *testing.T) {
		// 7 is not a packed cell code; the layout must be rejected
		writeSessionFile(t, "bad1", `{
			"id": "bad1",
			"config_name": "classic",
			"initial_layout": "`+good+`",
			"current_layout": "7",
			"undo_stack": [],
			"redo_stack": []
		}`)
		if _, err := persistence.Load("bad1"); err == nil {
			t.Error("Expected error loading a corrupt current layout")
		}
	})

	t.Run("corrupt undo stack", func(t *testing.T) {
		writeSessionFile(t, "bad2", `{
			"id": "bad2",
			"config_name": "classic",
			"initial_layout": "`+good+`",
			"current_layout": "`+good+`",
			"undo_stack": ["not-a-number"],
			"redo_stack": []
		}`)
		if _, err := persistence.Load("bad2"); err == nil {
			t.Error("Expected error loading a corrupt undo stack")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		writeSessionFile(t, "bad3", "{ this is not json")
		if _, err := persistence.Load("bad3"); err == nil {
			t.Error("Expected error loading malformed JSON")
		}
	})
}

func TestFilePersistenceSharedSession(t *testing.T) {
	// Sessions imported from share codes carry a config with no catalog
	// entry; the persisted initial layout rebuilds it on load.
	tempDir, err := os.MkdirTemp("", "session_shared_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configManager := newTestConfigManager(t)
	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	sharedConfig := createTestConfig()
	sharedConfig.Name = "shared"
	eng, err := engine.NewEngine(sharedConfig)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if _, err := eng.MovePiece(2, 1, solver.Down); err != nil {
		t.Fatalf("Failed to move: %v", err)
	}

	session := &service.Session{
		ID:             "shar",
		Engine:         eng,
		Config:         sharedConfig,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save shared session: %v", err)
	}

	loaded, err := persistence.Load("shar")
	if err != nil {
		t.Fatalf("Failed to load shared session: %v", err)
	}
	if loaded.Config.Name != "shared" {
		t.Errorf("Config name = %q, want %q", loaded.Config.Name, "shared")
	}
	if loaded.Engine.InitialLayout() != eng.InitialLayout() {
		t.Error("Expected initial board rebuilt from the persisted layout")
	}
	if loaded.Engine.CurrentLayout() != eng.CurrentLayout() {
		t.Error("Expected current board to survive the round trip")
	}
}

func TestFilePersistenceFileStructure(t *testing.T) {
	// Create temporary directory
	tempDir, err := os.MkdirTemp("", "session_file_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configManager := newTestConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	// Create and save session
	gameConfig := configManager.GetDefault()
	eng, err := engine.NewEngine(gameConfig)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	session := &service.Session{
		ID:             "file_test",
		Engine:         eng,
		Config:         gameConfig,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	err = persistence.Save(session)
	if err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// Check file exists in correct location
	expectedFile := filepath.Join(tempDir, "file_test.json")
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		t.Errorf("Expected file %s does not exist", expectedFile)
	}

	// Check file contains valid JSON
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	if len(data) == 0 {
		t.Error("Session file should not be empty")
	}

	// Check it contains expected fields (basic validation)
	content := string(data)
	expectedFields := []string{
		"\"id\"", "\"config_name\"", "\"created_at\"",
		"\"initial_layout\"", "\"current_layout\"", "\"undo_stack\"", "\"move_count\"",
	}
	for _, field := range expectedFields {
		if !strings.Contains(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}
}
