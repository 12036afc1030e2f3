// Package solver implements search over Klotski layouts: move generation,
// the exhaustive distance index, the informed heuristic, and the PathFinder
// that answers shortest-path queries for a session.
//
// The solver package implements:
//   - Legal move enumeration over packed layouts (Successors, TryMove)
//   - SearchIndex: canonical layout -> minimum distance from a fixed root,
//     built by one exhaustive breadth-first traversal
//   - An admissible, consistent cost-to-goal estimate (Estimate)
//   - PathFinder: one-time initial solve plus incremental
//     "shortest path from here" queries (cached-path hits or A*)
//   - Interchangeable solve strategies for benchmarking
//
// Lifecycle:
//
// A PathFinder is created for one initial layout and owned by one puzzle
// session. ComputeInitialSolution runs the exhaustive traversal once and
// memoizes the optimal path; QueryShortestPathFrom then serves every
// follow-up question as the player moves, undoes, redoes, or reloads.
// A different initial layout needs a new PathFinder.
//
// Usage:
//
//	pf := solver.NewPathFinder(layout)
//	path, err := pf.ComputeInitialSolution()
//	if errors.Is(err, solver.ErrNoSolution) {
//		// puzzle cannot be solved from this opening; disable hints
//	}
//
//	remaining, err := pf.QueryShortestPathFrom(current)
//	if len(remaining) == 0 {
//		// no path from here (foreign or stale state)
//	}
//
// Concurrency:
//
// Nothing in this package locks. Both the exhaustive traversal and each A*
// query are synchronous run-to-completion computations, and a PathFinder
// must only be touched by one goroutine at a time. The hosting engine
// serializes access behind its own mutex and runs long solves on worker
// goroutines (see game/engine and game/service).
package solver
