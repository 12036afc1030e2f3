package solver

import (
	"errors"
	"fmt"

	"github.com/giraffishh/klotski/game/board"
)

// ErrUnknownStrategy reports a strategy name outside StrategyNames.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is one interchangeable way to solve a puzzle from scratch:
// given an initial layout, return a shortest board sequence from it to a
// goal, both inclusive, or ErrNoSolution. The hybrid strategy is what the
// game engine runs; the rest exist for the bench command and must agree
// with it on path length. Explored reports how many states the last Solve
// visited. A Strategy is single-use per goroutine; callers wanting
// parallel runs create one per run.
type Strategy interface {
	Name() string
	Solve(initial board.Layout) ([]board.Layout, error)
	Explored() int
}

// NewStrategy returns the named strategy.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "hybrid":
		return &hybridStrategy{}, nil
	case "bfs":
		return &bfsStrategy{}, nil
	case "iddfs":
		return &iddfsStrategy{budget: iddfsDefaultBudget}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// StrategyNames lists the available strategies, production first.
func StrategyNames() []string {
	return []string{"hybrid", "bfs", "iddfs"}
}

// hybridStrategy is the production configuration: exhaustive BFS building
// the distance index, optimal path out of the arena. It costs a full
// graph traversal up front and buys every later query back for free.
type hybridStrategy struct {
	explored int
}

func (*hybridStrategy) Name() string { return "hybrid" }

func (s *hybridStrategy) Explored() int { return s.explored }

func (s *hybridStrategy) Solve(initial board.Layout) ([]board.Layout, error) {
	pf := NewPathFinder(initial)
	path, err := pf.ComputeInitialSolution()
	s.explored = pf.Index().Size()
	return path, err
}
