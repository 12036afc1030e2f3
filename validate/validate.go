// Package validate checks Klotski puzzle definitions before they enter
// the catalog. It verifies:
//   - JSON structure and required fields
//   - Board dimensions (5x4) and allowed piece codes (0-4)
//   - Piece footprint integrity (every multi-cell piece complete, no overlap)
//   - Presence of exactly one 2x2 general
//   - Empty-cell count (a board with no room can never be played)
//   - Solvability: a bounded breadth-first probe over the reachable state
//     space, reporting the optimal solution length or the lack of one
//
// The checks are the library half of the offline tooling; cmd/analyze
// prints the reports.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/solver"
)

// DefaultProbeBudget caps the canonical states the solvability probe
// visits. Every sane 5x4 puzzle stays far below it; hitting the cap
// downgrades solvability from a finding to a warning.
const DefaultProbeBudget = 2_000_000

// Probe outcomes.
var (
	errProbeUnsolvable = errors.New("no reachable goal")
	errProbeBudget     = errors.New("probe budget exceeded")
)

// ValidationResult captures the outcome of validating a single puzzle.
// Errors make the puzzle invalid; Warnings flag oddities a designer may
// have intended; Info carries the summary lines a report prints for
// healthy puzzles.
type ValidationResult struct {
	Name     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) errorf(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) infof(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// ValidateStructure runs the structural checks only: shape, piece codes,
// footprints, goal piece, and maneuvering room. Callers that run their own
// search use this to skip the solvability probe.
func ValidateStructure(config *engine.PuzzleConfig) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if config == nil {
		result.Name = "(nil)"
		result.errorf("config is nil")
		return result
	}

	result.Name = config.Name
	if config.Name == "" {
		result.Name = "(unnamed)"
		result.errorf("name is required")
	}

	validateBoard(config.Board, result)
	if !result.Valid {
		return result
	}

	result.infof("Board: %dx%d", board.Rows, board.Cols)
	inv := config.Board.Inventory()
	result.infof("Pieces: %d general, %d vertical, %d horizontal, %d soldier",
		inv[board.General], inv[board.Vertical], inv[board.Horizontal], inv[board.Soldier])
	return result
}

// ValidateConfig validates a single puzzle configuration: structure,
// piece integrity, goal piece, maneuvering room, and solvability.
func ValidateConfig(config *engine.PuzzleConfig) *ValidationResult {
	result := ValidateStructure(config)
	if !result.Valid {
		return result
	}

	l, err := board.Pack(config.Board)
	if err != nil {
		// Unreachable after the structural checks, but never probe a bad pack.
		result.errorf("pack failed: %v", err)
		return result
	}

	probe(l, DefaultProbeBudget, result)
	return result
}

// validateBoard runs the structural checks: shape, codes, footprints,
// general count, and empty-cell count.
func validateBoard(b board.Board, result *ValidationResult) {
	if len(b) == 0 {
		result.errorf("board is empty")
		return
	}
	if len(b) != board.Rows {
		result.errorf("board has %d rows, want %d", len(b), board.Rows)
		return
	}
	for r, row := range b {
		if len(row) != board.Cols {
			result.errorf("row %d has %d columns, want %d", r, len(row), board.Cols)
			return
		}
		for c, code := range row {
			if code < board.Empty || code > board.General {
				result.errorf("unknown piece code %d at (%d,%d)", code, r, c)
			}
		}
	}
	if !result.Valid {
		return
	}

	// Footprint integrity: every multi-cell piece complete, no overlaps.
	if err := b.Validate(); err != nil {
		result.errorf("%v", err)
		return
	}

	inv := b.Inventory()
	switch inv[board.General] {
	case 0:
		result.errorf("no 2x2 general: the puzzle can never be solved")
	case 1:
		// The expected shape.
	default:
		result.warnf("%d generals on the board; the first to reach the exit wins", inv[board.General])
	}

	empties := 0
	for _, row := range b {
		for _, code := range row {
			if code == board.Empty {
				empties++
			}
		}
	}
	switch {
	case empties == 0:
		result.errorf("board is full: no piece can ever move")
	case empties == 1:
		result.warnf("only one empty cell: the 2x2 general can never move")
	default:
		result.infof("Empty cells: %d", empties)
	}
}

// probe reports solvability. A solvable puzzle contributes info lines, an
// unsolvable one an error, and a state space beyond the budget a warning,
// since a bigger search might still find a goal.
func probe(l board.Layout, budget int, result *ValidationResult) {
	optimal, states, err := probeSolvability(l, budget)
	switch {
	case err == nil && optimal == 0:
		result.warnf("puzzle starts at the goal")
		result.infof("Reachable states: %d", states)
	case err == nil:
		result.infof("Solvable: optimal solution %d moves", optimal)
		result.infof("Reachable states: %d", states)
	case errors.Is(err, errProbeUnsolvable):
		result.errorf("no solution: the general can never reach the exit (%d states examined)", states)
	case errors.Is(err, errProbeBudget):
		result.warnf("state space exceeds %d states; solvability not verified", budget)
	}
}

// probeSolvability runs a breadth-first search with mirror-canonical
// dedup from the initial layout until it finds a goal, exhausts the
// reachable graph, or visits budget states. The first goal reached is at
// optimal depth.
func probeSolvability(l board.Layout, budget int) (optimal, states int, err error) {
	type node struct {
		layout board.Layout
		depth  int
	}

	seen := map[board.Layout]struct{}{l.Canonical(): {}}
	queue := []node{{l, 0}}

	for head := 0; head < len(queue); head++ {
		n := queue[head]
		if n.layout.IsGoal() {
			return n.depth, len(seen), nil
		}
		if len(seen) >= budget {
			return -1, len(seen), errProbeBudget
		}
		for _, s := range solver.Successors(n.layout) {
			key := s.Canonical()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			queue = append(queue, node{s, n.depth + 1})
		}
	}
	return -1, len(seen), errProbeUnsolvable
}

// ValidateFile reads one puzzle JSON file and validates it. Read and
// parse failures are reported as validation errors, not returned.
func ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{
		Name:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.errorf("failed to read file: %v", err)
		return result
	}

	var config engine.PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.errorf("invalid JSON: %v", err)
		return result
	}

	checked := ValidateConfig(&config)
	checked.Name = filepath.Base(path)
	return checked
}

// ValidateDir validates every *.json file in dir, sorted by name. The
// error covers only directory access; per-file problems land in the
// results.
func ValidateDir(dir string) ([]*ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)

	results := make([]*ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}
