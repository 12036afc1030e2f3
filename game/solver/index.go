package solver

import (
	"errors"

	"github.com/giraffishh/klotski/game/board"
)

// Search errors.
var (
	ErrNoSolution = errors.New("no solution from the initial layout")
	ErrNotIndexed = errors.New("path finder has not been indexed")
	ErrIndexBuilt = errors.New("index already built")
)

// searchNode is one slot in a traversal arena: the layout reached, the
// arena index of its predecessor, and its depth from the root. Arenas are
// owned by a single traversal and dropped when it finishes; only the
// distance map survives.
type searchNode struct {
	layout board.Layout
	parent int32
	depth  int32
}

// unwind walks parent links from arena[i] back to the root and returns the
// layouts in root-to-node order. Depths along the chain step down by one,
// so each node writes straight into its slot.
func unwind(arena []searchNode, i int32) []board.Layout {
	path := make([]board.Layout, arena[i].depth+1)
	for at := i; at >= 0; at = arena[at].parent {
		path[arena[at].depth] = arena[at].layout
	}
	return path
}

// SearchIndex maps every canonical layout reachable from a fixed root
// layout to its minimum move distance from that root. Build populates it
// with one exhaustive breadth-first traversal; afterwards the index is
// read-only. Each index belongs to exactly one PathFinder and is rebuilt
// fresh for a new initial layout, never shared or merged.
type SearchIndex struct {
	root     board.Layout
	dist     map[board.Layout]int32
	goalDist int32
	hasGoal  bool
	built    bool
}

// NewSearchIndex creates an empty index rooted at the given layout.
func NewSearchIndex(root board.Layout) *SearchIndex {
	return &SearchIndex{
		root:     root,
		dist:     make(map[board.Layout]int32),
		goalDist: -1,
	}
}

// Build runs the exhaustive traversal. Every discovered layout is
// canonicalized before recording; the first reach of a canonical layout is
// its minimum distance (BFS visits in non-decreasing depth), and later
// re-derivations are dropped. The traversal does not stop at the first
// goal — the index must cover the whole reachable graph — but remembers
// that goal and returns the optimal path to it, reconstructed through the
// arena's parent links. The actual layouts ride in the arena, so the path
// is a genuine move sequence even when mirrored twins were deduplicated.
//
// A root with no reachable goal returns ErrNoSolution; the index is still
// fully built and usable for lookups.
func (idx *SearchIndex) Build() ([]board.Layout, error) {
	if idx.built {
		return nil, ErrIndexBuilt
	}

	arena := make([]searchNode, 1, 4096)
	arena[0] = searchNode{layout: idx.root, parent: -1, depth: 0}
	idx.dist[idx.root.Canonical()] = 0
	goalAt := int32(-1)

	for head := 0; head < len(arena); head++ {
		n := arena[head]
		if goalAt < 0 && n.layout.IsGoal() {
			goalAt = int32(head)
			idx.goalDist = n.depth
			idx.hasGoal = true
		}
		for _, s := range Successors(n.layout) {
			key := s.Canonical()
			if _, seen := idx.dist[key]; seen {
				continue
			}
			idx.dist[key] = n.depth + 1
			arena = append(arena, searchNode{layout: s, parent: int32(head), depth: n.depth + 1})
		}
	}
	idx.built = true

	if goalAt < 0 {
		return nil, ErrNoSolution
	}
	return unwind(arena, goalAt), nil
}

// Built reports whether the exhaustive traversal has completed.
func (idx *SearchIndex) Built() bool {
	return idx.built
}

// Root returns the layout the traversal was seeded with.
func (idx *SearchIndex) Root() board.Layout {
	return idx.root
}

// Size returns the number of canonical layouts recorded.
func (idx *SearchIndex) Size() int {
	return len(idx.dist)
}

// LookupMinDistance returns the minimum distance from the root for a
// CANONICAL layout, or ok=false when the layout was never reached. Callers
// canonicalize first; raw layouts whose mirror was the recorded twin would
// otherwise miss.
func (idx *SearchIndex) LookupMinDistance(canonical board.Layout) (int32, bool) {
	d, ok := idx.dist[canonical]
	return d, ok
}

// GoalDistance returns the minimum distance from the root to any goal
// layout. ok is false when the exhaustive traversal found no goal, which
// marks the whole session unsolvable.
func (idx *SearchIndex) GoalDistance() (int32, bool) {
	return idx.goalDist, idx.hasGoal
}
