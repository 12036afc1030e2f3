package solver

import "github.com/giraffishh/klotski/game/board"

// bfsStrategy is a first-goal breadth-first search with mirror
// deduplication. It stops as soon as a goal surfaces instead of exhausting
// the graph, so it explores fewer states than hybrid but leaves nothing
// behind to answer follow-up queries. Benchmarking only.
type bfsStrategy struct {
	explored int
}

func (*bfsStrategy) Name() string { return "bfs" }

func (s *bfsStrategy) Explored() int { return s.explored }

func (s *bfsStrategy) Solve(initial board.Layout) ([]board.Layout, error) {
	arena := make([]searchNode, 1, 4096)
	arena[0] = searchNode{layout: initial, parent: -1, depth: 0}
	seen := map[board.Layout]struct{}{initial.Canonical(): {}}

	for head := 0; head < len(arena); head++ {
		n := arena[head]
		if n.layout.IsGoal() {
			s.explored = len(seen)
			return unwind(arena, int32(head)), nil
		}
		for _, succ := range Successors(n.layout) {
			key := succ.Canonical()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			arena = append(arena, searchNode{layout: succ, parent: int32(head), depth: n.depth + 1})
		}
	}
	s.explored = len(seen)
	return nil, ErrNoSolution
}
