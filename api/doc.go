// Package api provides the HTTP REST API for the Klotski puzzle server.
//
// The api package implements:
//   - RESTful endpoints for puzzle operations
//   - Session management endpoints
//   - Puzzle catalog listing and custom puzzle upload
//   - Async solver job endpoints
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create session from a config_id or share_code
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Move the piece at a cell
//   - POST /api/sessions/{id}/undo - Step back one move
//   - POST /api/sessions/{id}/redo - Reapply an undone move
//   - POST /api/sessions/{id}/reset - Back to the initial board
//   - GET /api/sessions/{id}/hint - Next move on a shortest path
//   - GET /api/sessions/{id}/history - Paginated move history
//   - GET /api/sessions/{id}/export - Layout string and share code
//
// Solver:
//   - POST /api/sessions/{id}/solve - Start an async solve, returns 202
//   - GET /api/sessions/{id}/solve/{jobID} - Poll a solve job
//
// Configuration:
//   - GET /api/configs - List available puzzle configurations
//   - POST /api/configs - Save a custom puzzle configuration
//   - GET /api/configs/{name} - Get a specific configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves name the piece by the
// board cell it occupies:
//
//	{
//	  "row": 4,
//	  "col": 1,
//	  "direction": "up|down|left|right",
//	  "reset": true|false  // optional reset before the move
//	}
//
// An illegal move is not an HTTP error: the response has success false
// and a message naming what blocked the piece, and the board is
// unchanged.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Missing sessions and solve jobs are 404; undo with nothing to undo,
// redo with nothing to redo, and moves on a solved board are 409.
package api
