// Package config provides the puzzle catalog for the Klotski server.
//
// The config package handles:
//   - Loading puzzle configurations from JSON files
//   - Configuration validation before caching or saving
//   - Default configuration selection and classic-puzzle seeding
//   - Catalog discovery and listing
//
// Configuration Format:
//
// Puzzle configurations are stored as JSON files in the configs
// directory. Each configuration defines:
//   - A name and optional description
//   - The 5x4 starting board as rows of piece codes
//     (0=empty, 1=soldier, 2=horizontal, 3=vertical, 4=general)
//   - An optional difficulty label
//
// The classic opening ships built in: a directory with no loadable
// puzzle is seeded with classic.json on startup, so a fresh install
// always has something to play.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Msg("catalog unavailable")
//	}
//
//	// Load a specific configuration
//	puzzle, err := manager.LoadConfig("classic")
//
//	// Get the default configuration
//	puzzle = manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Configurations are cached after first load; RefreshCache drops the
// cache after files change on disk. All methods are safe for concurrent
// use.
package config
