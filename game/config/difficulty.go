package config

// Difficulty grades a puzzle by its optimal solution length.
type Difficulty int

const (
	Unknown Difficulty = iota
	Easy
	Medium
	Hard
	Expert
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "unknown"
	}
}

// Rate maps an optimal solution length to a difficulty grade. A negative
// length means the puzzle was never solved and rates Unknown; zero means
// it starts at the goal.
func Rate(optimalMoves int) Difficulty {
	switch {
	case optimalMoves < 0:
		return Unknown
	case optimalMoves < 20:
		return Easy
	case optimalMoves < 50:
		return Medium
	case optimalMoves < 100:
		return Hard
	default:
		return Expert
	}
}
