// Command analyze prints quick, human-readable heuristics about the puzzle
// files in the project's configs directory. For each puzzle it runs the
// structural checks, then explores the full state space to report its size,
// the optimal solution length, a measured difficulty grade, and how long the
// exploration took. It exits non-zero when any puzzle has problems.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/giraffishh/klotski/game/board"
	"github.com/giraffishh/klotski/game/config"
	"github.com/giraffishh/klotski/game/engine"
	"github.com/giraffishh/klotski/game/solver"
	"github.com/giraffishh/klotski/validate"
)

// tractableStates is the state-space size above which the first solve on a
// session stops feeling instant.
const tractableStates = 100_000

func main() {
	configDir := flag.String("configs", "configs", "directory holding puzzle JSON files")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error scanning %s: %v\n", *configDir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No puzzle files found in %s\n", *configDir)
		os.Exit(1)
	}
	sort.Strings(files)

	problems := 0
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if !analyzePuzzle(file) {
			problems++
		}
	}

	fmt.Printf("\nAnalyzed %d puzzle(s), %d with problems\n", len(files), problems)
	if problems > 0 {
		os.Exit(1)
	}
}

// analyzePuzzle validates one puzzle file and, when it is structurally
// sound, explores its state space. Returns false when the puzzle has
// problems that should fail the run; warnings alone do not.
func analyzePuzzle(file string) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("❌ Error reading file: %v\n", err)
		return false
	}

	var puzzle engine.PuzzleConfig
	if err := json.Unmarshal(data, &puzzle); err != nil {
		fmt.Printf("❌ Error parsing JSON: %v\n", err)
		return false
	}

	fmt.Printf("Name: %s\n", puzzle.Name)
	if puzzle.Description != "" {
		fmt.Printf("Description: %s\n", puzzle.Description)
	}
	if puzzle.Difficulty != "" {
		fmt.Printf("Declared difficulty: %s\n", puzzle.Difficulty)
	}

	result := validate.ValidateStructure(&puzzle)
	for _, msg := range result.Info {
		fmt.Println(msg)
	}
	for _, msg := range result.Warnings {
		fmt.Printf("⚠️  %s\n", msg)
	}
	for _, msg := range result.Errors {
		fmt.Printf("❌ %s\n", msg)
	}
	if !result.Valid {
		return false
	}

	l, err := board.Pack(puzzle.Board)
	if err != nil {
		fmt.Printf("❌ Board does not pack: %v\n", err)
		return false
	}

	start := time.Now()
	idx := solver.NewSearchIndex(l)
	solution, buildErr := idx.Build()
	elapsed := time.Since(start)

	fmt.Printf("Reachable states: %d\n", idx.Size())
	fmt.Printf("Exploration time: %s\n", elapsed.Round(time.Millisecond))

	if buildErr != nil {
		fmt.Printf("❌ No solution: the general can never reach the exit\n")
		return false
	}

	optimal := len(solution) - 1
	measured := config.Rate(optimal)
	fmt.Printf("Optimal solution: %d moves\n", optimal)
	fmt.Printf("Measured difficulty: %s\n", measured)

	if optimal == 0 {
		fmt.Printf("⚠️  Puzzle starts at the goal\n")
	}
	if puzzle.Difficulty != "" && puzzle.Difficulty != measured.String() {
		fmt.Printf("⚠️  Declared difficulty %q does not match measured %q\n",
			puzzle.Difficulty, measured)
	}
	if idx.Size() > tractableStates {
		fmt.Printf("⚠️  Large state space: solving will take noticeably long\n")
	} else {
		fmt.Printf("✅ Solvable and tractable\n")
	}
	return true
}
