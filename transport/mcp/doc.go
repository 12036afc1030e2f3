// Package mcp provides the Model Context Protocol server for the Klotski
// puzzle service.
//
// The package is a thin client: every tool call is proxied to the REST
// API server, so MCP agents and web players share one source of truth
// for session state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Current board grid with move counters
//   - move_piece: Slide one piece up/down/left/right (requires intent)
//   - undo_move / redo_move: Walk the move history
//   - reset_puzzle: Return to the starting layout
//   - get_hint: Next move on a shortest solution
//   - solve_puzzle: Compute an optimal solution path (waits, or hands
//     back a job ID when the solve runs long)
//   - solve_status: Poll a solve job
//   - share_code: Export the current board as a share code
//   - move_history: Paginated move history
//   - create_session: New session from a catalog puzzle or a share code
//   - get_session / list_sessions: Session inspection
//   - list_puzzles: Catalog puzzles with difficulty
//   - puzzle_instructions: Complete rules and strategy notes
//   - describe_cell: One cell plus its four neighbors
//
// Session Management:
//
// Every board-touching tool takes a session_id, so an agent can play
// several puzzles concurrently. Sessions live in the REST server;
// restarting the MCP process loses nothing.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The tool surface is designed for autonomous play: describe_cell guards
// against misreading the grid, the intent parameter on move_piece forces
// the agent to articulate its plan, and the solver tools (get_hint,
// solve_puzzle) let an agent verify its strategy against an optimal path.
package mcp
