// Package engine provides the core session logic for the Klotski puzzle game.
//
// The engine package implements the game mechanics including:
//   - Piece movement with full legality checking
//   - Undo and redo stacks and the cumulative move history
//   - Solved detection and per-move state snapshots
//   - Hints and optimal solutions backed by the solver package
//   - Puzzle configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for session operations,
// implemented by GameEngine. GameState is the snapshot returned by every
// operation, while PuzzleConfig defines a puzzle's starting board loaded
// from JSON files.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultPuzzle())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide the piece covering (4,0) one cell to the right
//	state, err := gameEngine.MovePiece(4, 0, solver.Right)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(state.Message)
//
// Game Rules:
//
// Players slide pieces on a 5x4 board, one cell per move, into the empty
// cells. The puzzle is solved when the 2x2 general reaches the exit at the
// bottom center. Every solver question (hints, minimum remaining moves,
// the optimal solution) is answered for the session's fixed initial board;
// the first such question pays for one exhaustive solve and later ones
// reuse its index.
package engine
