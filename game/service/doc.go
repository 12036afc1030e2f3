// Package service provides the business logic layer for the Klotski server.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Move, undo, redo, and reset processing
//   - Async solve jobs with completion events
//   - Share-code import and layout export
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level puzzle
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages puzzle configuration loading.
// Broadcaster pushes events to a session's live subscribers.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, catalog access, and solve-job
// orchestration. Each session maintains its own engine instance with
// independent state. The engine's first hint or solve pays for an exhaustive
// traversal of the puzzle's state space, so StartSolve hands that work to a
// worker goroutine and reports back through a pollable job and a
// solve_complete event.
//
// Usage:
//
//	sessionMgr := session.NewManagerWithPersistence(persistence)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, hub)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	// Slide the piece covering row 4, column 1 to the right
//	result, err := gameService.Move(ctx, sessionInfo.ID, 4, 1, "right", false)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// board state. Multiple sessions can run concurrently with different puzzles.
// Sessions track creation time, last access time, and move history, and are
// persisted after every mutating operation.
package service
