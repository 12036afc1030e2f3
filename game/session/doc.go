// Package session provides session management for the Klotski server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - JSON file persistence of board state
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores one JSON file per session: the config name, the
// initial and current boards, both undo/redo stacks, and the move history,
// all boards as decimal layout strings. A layout string that fails to parse
// marks the file as corrupt; the session is skipped with a warning rather
// than coerced into something playable.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs compare
// case-insensitively and are generated with cryptographic randomness.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	if err != nil {
//		log.Fatal().Err(err).Msg("init persistence")
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Restore sessions from a previous run
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal().Err(err).Msg("load sessions")
//	}
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//
// Cleanup:
//
// Sessions can be explicitly deleted or expire based on inactivity via
// CleanupExpiredSessions. DeleteFromMemory drops the in-memory copy only,
// used when the backing file disappears out from under the server.
package session
