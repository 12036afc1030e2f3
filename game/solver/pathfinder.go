package solver

import (
	"container/heap"

	"github.com/giraffishh/klotski/game/board"
)

// PathFinder answers shortest-path questions for one puzzle session. It is
// bound to a single initial layout: ComputeInitialSolution runs the
// exhaustive traversal exactly once, and QueryShortestPathFrom serves
// every later "how do I finish from here" query, staying correct across
// player moves, undos, redos, and reloaded saves. A different initial
// layout requires a new PathFinder.
//
// PathFinder is not safe for concurrent use. The owning session serializes
// access and runs the initial solve on a worker goroutine; see game/engine.
type PathFinder struct {
	initial  board.Layout
	index    *SearchIndex
	optimal  []board.Layout
	buildErr error
	indexed  bool
}

// NewPathFinder creates a PathFinder for the given initial layout. No
// search happens until ComputeInitialSolution is called.
func NewPathFinder(initial board.Layout) *PathFinder {
	return &PathFinder{
		initial: initial,
		index:   NewSearchIndex(initial),
	}
}

// Initial returns the layout this PathFinder was created for.
func (pf *PathFinder) Initial() board.Layout {
	return pf.initial
}

// Index returns the underlying search index. Read-only once Indexed
// reports true; used by diagnostics and the analyze tool.
func (pf *PathFinder) Index() *SearchIndex {
	return pf.index
}

// Indexed reports whether ComputeInitialSolution has completed. Queries
// before that fail with ErrNotIndexed.
func (pf *PathFinder) Indexed() bool {
	return pf.indexed
}

// ComputeInitialSolution performs the one-time exhaustive solve and
// returns the optimal path from the initial layout to a goal, both
// inclusive. Idempotent: the first call builds the index, later calls
// return the memoized result — including a memoized ErrNoSolution when the
// initial layout cannot reach a goal.
func (pf *PathFinder) ComputeInitialSolution() ([]board.Layout, error) {
	if !pf.indexed {
		pf.optimal, pf.buildErr = pf.index.Build()
		pf.indexed = true
	}
	if pf.buildErr != nil {
		return nil, pf.buildErr
	}
	return clonePath(pf.optimal), nil
}

// QueryShortestPathFrom returns a shortest board sequence from current to
// a goal, inclusive; len-1 is the minimum remaining move count. An empty
// path with a nil error means "no solution from here": the layout was
// never reached from the initial layout (foreign or stale state), or the
// session is unsolvable altogether. Callers decline to hint and move on.
//
// When current's canonical form sits on the cached optimal path the suffix
// from that entry is returned directly, with no search; the suffix may
// start at the mirror twin of current, which costs the same number of
// moves. Otherwise an A* search runs from current with local cost zero —
// the caller need not know its absolute distance from the root.
func (pf *PathFinder) QueryShortestPathFrom(current board.Layout) ([]board.Layout, error) {
	if !pf.indexed {
		return nil, ErrNotIndexed
	}

	key := current.Canonical()
	for i, l := range pf.optimal {
		if l.Canonical() == key {
			return clonePath(pf.optimal[i:]), nil
		}
	}

	if _, known := pf.index.LookupMinDistance(key); !known {
		return nil, nil
	}
	if _, solvable := pf.index.GoalDistance(); !solvable {
		// Moves are reversible, so current's component is the root's
		// component, and it holds no goal.
		return nil, nil
	}
	return pf.astar(current), nil
}

// astarNode augments a searchNode with the f score the open heap orders
// by; g (cost from the query start) rides in depth's place.
type astarNode struct {
	layout board.Layout
	parent int32
	g      int32
	f      int32
}

// openHeap is a min-heap of arena indexes ordered by f, breaking ties
// toward larger g so nodes closer to the goal surface first.
type openHeap struct {
	arena *[]astarNode
	items []int32
}

func (h *openHeap) Len() int { return len(h.items) }

func (h *openHeap) Less(i, j int) bool {
	a, b := (*h.arena)[h.items[i]], (*h.arena)[h.items[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	return a.g > b.g
}

func (h *openHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *openHeap) Push(x any) {
	h.items = append(h.items, x.(int32))
}

func (h *openHeap) Pop() any {
	last := len(h.items) - 1
	x := h.items[last]
	h.items = h.items[:last]
	return x
}

// astar runs a single-source A* from start, using the index-informed
// estimate and a visited map keyed by canonical layout with dominance
// pruning: a canonical layout is re-expanded only when rediscovered at a
// strictly smaller local cost. Stale heap entries are skipped on pop.
func (pf *PathFinder) astar(start board.Layout) []board.Layout {
	arena := make([]astarNode, 1, 256)
	arena[0] = astarNode{layout: start, parent: -1, g: 0, f: Estimate(start, pf.index)}
	best := map[board.Layout]int32{start.Canonical(): 0}
	open := &openHeap{arena: &arena, items: []int32{0}}

	for open.Len() > 0 {
		at := heap.Pop(open).(int32)
		n := arena[at]
		if n.g > best[n.layout.Canonical()] {
			continue
		}
		if n.layout.IsGoal() {
			path := make([]board.Layout, n.g+1)
			for i := at; i >= 0; i = arena[i].parent {
				path[arena[i].g] = arena[i].layout
			}
			return path
		}
		for _, s := range Successors(n.layout) {
			key := s.Canonical()
			g := n.g + 1
			if prev, seen := best[key]; seen && prev <= g {
				continue
			}
			best[key] = g
			arena = append(arena, astarNode{layout: s, parent: at, g: g, f: g + Estimate(s, pf.index)})
			heap.Push(open, int32(len(arena)-1))
		}
	}

	// Unreachable when the component holds a goal; kept for foreign
	// layouts that slipped past the index gate.
	return nil
}

func clonePath(p []board.Layout) []board.Layout {
	out := make([]board.Layout, len(p))
	copy(out, p)
	return out
}
