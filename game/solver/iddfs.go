package solver

import (
	"errors"

	"github.com/giraffishh/klotski/game/board"
)

// ErrBudgetExceeded reports an iddfs run that burned its node budget
// before any depth limit produced a goal.
var ErrBudgetExceeded = errors.New("search budget exceeded")

const (
	// iddfsMaxDepth caps the deepening; no catalog puzzle needs more.
	iddfsMaxDepth = 160

	// iddfsDefaultBudget bounds total node visits across all iterations.
	// Deep puzzles blow through it; iterative deepening only suits
	// shallow boards, and the bench reports the failure as a result.
	iddfsDefaultBudget = 5_000_000
)

// iddfsStrategy is iterative-deepening DFS with a per-iteration cache of
// the shallowest depth each canonical layout was expanded at; revisits at
// equal or greater depth are cut off. Memory stays proportional to the
// path, time grows exponentially with depth. Benchmarking only.
type iddfsStrategy struct {
	budget   int
	explored int
}

func (*iddfsStrategy) Name() string { return "iddfs" }

// Explored counts node visits, not distinct states; iterative deepening
// revisits shallow layouts on every iteration.
func (s *iddfsStrategy) Explored() int { return s.explored }

func (s *iddfsStrategy) Solve(initial board.Layout) ([]board.Layout, error) {
	run := &iddfsRun{budget: s.budget}
	defer func() { s.explored = s.budget - run.budget }()

	for limit := int32(0); limit <= iddfsMaxDepth; limit++ {
		run.cache = make(map[board.Layout]int32)
		run.path = run.path[:0]
		if run.dfs(initial, 0, limit) {
			return clonePath(run.path), nil
		}
		if run.budget <= 0 {
			return nil, ErrBudgetExceeded
		}
	}
	return nil, ErrNoSolution
}

type iddfsRun struct {
	cache  map[board.Layout]int32
	path   []board.Layout
	budget int
}

func (r *iddfsRun) dfs(l board.Layout, depth, limit int32) bool {
	if r.budget <= 0 {
		return false
	}
	r.budget--
	r.path = append(r.path, l)

	if l.IsGoal() {
		return true
	}
	if depth == limit {
		r.path = r.path[:len(r.path)-1]
		return false
	}

	key := l.Canonical()
	if seen, ok := r.cache[key]; ok && seen <= depth {
		r.path = r.path[:len(r.path)-1]
		return false
	}
	r.cache[key] = depth

	for _, s := range Successors(l) {
		if r.dfs(s, depth+1, limit) {
			return true
		}
	}
	r.path = r.path[:len(r.path)-1]
	return false
}
