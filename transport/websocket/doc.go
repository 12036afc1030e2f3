// Package websocket provides real-time state streaming for Klotski sessions.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting after moves, undo/redo, and resets
//   - Solver completion notifications
//   - Connection lifecycle management with ping/pong keep-alive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a pair of
// dedicated goroutines that manage reading, writing, and cleanup.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded:
//
//	{"session_id": "ab3f", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab3f", "event": "solve_complete", "data": {...}}
//
// The connection is one-way: clients receive updates but moves are made
// over the REST API. Incoming frames are read only to keep the connection
// and its pong handling alive.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab3f)
// when establishing the connection. Updates are broadcast only to clients
// connected to the same session, so two browsers watching the same board
// stay in sync while other sessions see nothing.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a successful move:
//	hub.BroadcastToSession(sessionID, gameState)
//
// Concurrency:
//
// The hub owns the client registry; registration, unregistration, and
// broadcasts are serialized through the Run loop. Slow consumers are
// dropped rather than allowed to stall broadcasts for the rest of the
// session.
package websocket
