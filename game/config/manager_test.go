package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/engine"
)

func createTestConfigDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}

func createValidConfig() *engine.PuzzleConfig {
	return &engine.PuzzleConfig{
		Name:        "Test Puzzle",
		Description: "Puzzle for catalog tests",
		Difficulty:  "easy",
		Board: board.Board{
			{board.Empty, board.General, board.General, board.Empty},
			{board.Empty, board.General, board.General, board.Empty},
			{board.Empty, board.Soldier, board.Empty, board.Empty},
			{board.Empty, board.Empty, board.Empty, board.Empty},
			{board.Empty, board.Empty, board.Empty, board.Empty},
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.PuzzleConfig) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestConfigDir(t)
		defer os.RemoveAll(dir)

		defaultConfig := createValidConfig()
		defaultConfig.Name = "Default"
		writeConfigFile(t, dir, "default", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		dir := createTestConfigDir(t)
		defer os.RemoveAll(dir)

		// A file where the directory should go makes MkdirAll fail
		occupied := filepath.Join(dir, "occupied")
		if err := os.WriteFile(occupied, []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := NewManager(filepath.Join(occupied, "configs")); err == nil {
			t.Error("Expected error when the config directory cannot be created")
		}
	})

	t.Run("empty directory seeds classic", func(t *testing.T) {
		dir := createTestConfigDir(t)
		defer os.RemoveAll(dir)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager should succeed on an empty directory, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != "classic" {
			t.Errorf("Expected seeded default 'classic', got '%s'", defaultConfig.Name)
		}

		// The seed must land on disk, not just in memory
		if _, err := os.Stat(filepath.Join(dir, "classic.json")); err != nil {
			t.Errorf("Expected classic.json to be seeded: %v", err)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	// Create test configs
	defaultConfig := createValidConfig()
	defaultConfig.Name = "Default"
	writeConfigFile(t, dir, "default", defaultConfig)

	easyConfig := createValidConfig()
	easyConfig.Name = "Easy"
	easyConfig.Difficulty = "easy"
	writeConfigFile(t, dir, "easy", easyConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
		if config.Difficulty != "easy" {
			t.Errorf("Expected difficulty 'easy', got '%s'", config.Difficulty)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("easy.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		// First load
		config1, _ := manager.LoadConfig("easy")

		// Second load should come from cache
		config2, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		// Write invalid config
		invalidData := []byte(`{"name": ""}`) // Missing required fields
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err = manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load broken board", func(t *testing.T) {
		broken := createValidConfig()
		broken.Board[1][1] = board.Empty // punch a hole in the general
		writeConfigFile(t, dir, "broken", broken)

		_, err := manager.LoadConfig("broken")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		// Write malformed JSON
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err = manager.LoadConfig("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	// classic.json wins the default slot when present
	classicConfig := createValidConfig()
	classicConfig.Name = "Classic Opening"
	writeConfigFile(t, dir, "classic", classicConfig)

	otherConfig := createValidConfig()
	otherConfig.Name = "Another"
	writeConfigFile(t, dir, "another", otherConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := manager.GetDefault()
	if config == nil {
		t.Fatal("Expected default config to be non-nil")
	}
	if config.Name != "Classic Opening" {
		t.Errorf("Expected default config name 'Classic Opening', got '%s'", config.Name)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	classicConfig := createValidConfig()
	classicConfig.Name = "Classic Opening"
	writeConfigFile(t, dir, "classic", classicConfig)

	otherConfig := createValidConfig()
	otherConfig.Name = "Another"
	writeConfigFile(t, dir, "another", otherConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("another"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if got := manager.GetDefault().Name; got != "Another" {
		t.Errorf("Expected default 'Another', got '%s'", got)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	// Create multiple configs
	configs := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"easy", "Easy"},
		{"medium", "Medium"},
		{"hard", "Hard"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Also add a non-JSON file that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Errorf("Expected 4 configs, got %d", len(configList))
	}

	// Verify all configs are listed
	foundConfigs := make(map[string]bool)
	for _, info := range configList {
		foundConfigs[info.Name] = true

		if info.ConfigID+".json" != info.Filename {
			t.Errorf("Expected config id to match filename, got id '%s' for '%s'", info.ConfigID, info.Filename)
		}
		if info.Pieces != 2 {
			t.Errorf("Expected 2 pieces for '%s', got %d", info.ConfigID, info.Pieces)
		}
		if info.Empties != 15 {
			t.Errorf("Expected 15 empty cells for '%s', got %d", info.ConfigID, info.Empties)
		}
		if info.Difficulty != "easy" {
			t.Errorf("Expected difficulty 'easy' for '%s', got '%s'", info.ConfigID, info.Difficulty)
		}
	}

	for _, cfg := range configs {
		if !foundConfigs[cfg.name] {
			t.Errorf("Config '%s' not found in list", cfg.name)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save and reload", func(t *testing.T) {
		saved := createValidConfig()
		saved.Name = "Saved Puzzle"
		if err := manager.SaveConfig("saved", saved); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}

		loaded, err := manager.LoadConfig("saved")
		if err != nil {
			t.Fatalf("Failed to load saved config: %v", err)
		}
		if loaded.Name != "Saved Puzzle" {
			t.Errorf("Expected config name 'Saved Puzzle', got '%s'", loaded.Name)
		}
	})

	t.Run("reject invalid config", func(t *testing.T) {
		invalid := createValidConfig()
		invalid.Name = ""
		if err := manager.SaveConfig("bad", invalid); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
			t.Error("Expected invalid config not to reach disk")
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	// Create initial config
	config := createValidConfig()
	config.Name = "Changeable"
	config.Difficulty = "easy"
	writeConfigFile(t, dir, "classic", config)
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Load config first time
	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Difficulty != "easy" {
		t.Errorf("Expected initial difficulty 'easy', got '%s'", loaded.Difficulty)
	}

	// Modify config file
	config.Difficulty = "hard"
	writeConfigFile(t, dir, "changeable", config)

	// Stale until the cache is dropped
	stale, _ := manager.LoadConfig("changeable")
	if stale.Difficulty != "easy" {
		t.Errorf("Expected cached difficulty 'easy', got '%s'", stale.Difficulty)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	// Verify updated value
	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Difficulty != "hard" {
		t.Errorf("Expected reloaded difficulty 'hard', got '%s'", reloaded.Difficulty)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	// Create configs
	writeConfigFile(t, dir, "classic", createValidConfig())

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Puzzle" + string(rune('0'+i))
		writeConfigFile(t, dir, "puzzle"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Test concurrent loading
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "puzzle" + string(rune('0'+((id%5)+1)))
			_, err := manager.LoadConfig(configName)
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	// Check for errors
	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	// Verify cache size
	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "classic", createValidConfig())

	testConfig := createValidConfig()
	testConfig.Name = "Test"
	writeConfigFile(t, dir, "test", testConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Load config multiple times
	for i := 0; i < 10; i++ {
		config, err := manager.LoadConfig("test")
		if err != nil {
			t.Fatalf("Failed to load config on iteration %d: %v", i, err)
		}
		if config.Name != "Test" {
			t.Errorf("Unexpected config name on iteration %d", i)
		}
	}

	// Should have two entries in cache: classic (the default) and test
	if manager.Count() != 2 {
		t.Errorf("Expected 2 configs in cache, got %d", manager.Count())
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		moves    int
		expected Difficulty
	}{
		{-1, Unknown},
		{0, Easy},
		{4, Easy},
		{19, Easy},
		{20, Medium},
		{49, Medium},
		{50, Hard},
		{99, Hard},
		{100, Expert},
		{116, Expert},
	}

	for _, test := range tests {
		if got := Rate(test.moves); got != test.expected {
			t.Errorf("Rate(%d) = %s, want %s", test.moves, got, test.expected)
		}
	}
}

func TestDifficultyString(t *testing.T) {
	tests := []struct {
		d        Difficulty
		expected string
	}{
		{Unknown, "unknown"},
		{Easy, "easy"},
		{Medium, "medium"},
		{Hard, "hard"},
		{Expert, "expert"},
		{Difficulty(99), "unknown"},
	}

	for _, test := range tests {
		if got := test.d.String(); got != test.expected {
			t.Errorf("Difficulty(%d).String() = %q, want %q", test.d, got, test.expected)
		}
	}
}

// Add missing test-only methods to Manager

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
