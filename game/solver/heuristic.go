package solver

import "github.com/giraffishh/klotski/game/board"

// Estimate lower-bounds the number of moves remaining from l to a goal.
//
// The base bound is the Manhattan distance from the 2x2 piece's top-left
// cell to its goal position; a move shifts one piece by exactly one cell,
// so the true distance can never be smaller. When the index knows both the
// root-to-goal distance G and the root-to-l distance D, and G >= D, then
// G-D is a second valid bound: a path root->l->goal cannot undercut the
// globally shortest root->goal path. The estimate is the larger of the
// two. Both bounds are consistent (they drop by at most one per move), so
// the A* in this package returns true shortest paths.
//
// A layout without a 2x2 piece estimates 0: it can never reach the goal,
// and the search discovers that by exhaustion, not by a heuristic guess.
func Estimate(l board.Layout, idx *SearchIndex) int32 {
	var est int32
	if r, c, ok := l.GeneralTopLeft(); ok {
		est = int32(abs(r-(board.GoalRow-1)) + abs(c-board.GoalCol))
	}
	if idx != nil && idx.Built() {
		if goal, ok := idx.GoalDistance(); ok {
			if d, known := idx.LookupMinDistance(l.Canonical()); known && goal >= d && goal-d > est {
				est = goal - d
			}
		}
	}
	return est
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
