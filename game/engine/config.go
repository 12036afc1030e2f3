package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/giraffishh/klotski/game/board"
)

var ErrNilConfig = errors.New("config is nil")

// ValidatePuzzleConfig validates a puzzle configuration for correctness.
// The board must parse as well-formed pieces; solvability is not checked
// here, an unsolvable board is playable but never reaches the goal.
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config == nil {
		return ErrNilConfig
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if err := config.Board.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// LoadPuzzleConfig loads a puzzle configuration from a JSON file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if err := ValidatePuzzleConfig(&config); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &config, nil
}

// DefaultPuzzle returns the classic opening: the 2x2 general boxed in at
// the top center by four vertical guards, with the single horizontal bar
// and four soldiers below.
func DefaultPuzzle() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "classic",
		Description: "The classic opening, solvable in 116 moves at best",
		Difficulty:  "expert",
		Board: board.Board{
			{board.Vertical, board.General, board.General, board.Vertical},
			{board.Vertical, board.General, board.General, board.Vertical},
			{board.Vertical, board.Horizontal, board.Horizontal, board.Vertical},
			{board.Vertical, board.Soldier, board.Soldier, board.Vertical},
			{board.Soldier, board.Empty, board.Empty, board.Soldier},
		},
	}
}
