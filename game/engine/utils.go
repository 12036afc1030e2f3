package engine

import "github.com/giraffishh/klotski/game/board"

// pieceNames maps packed cell codes to the names used in messages,
// hints, and history records
var pieceNames = map[uint8]string{
	board.CellSoldier:    "soldier",
	board.CellVertical:   "vertical",
	board.CellHorizontal: "horizontal",
	board.CellGeneral:    "general",
}

func pieceName(code uint8) string {
	if name, ok := pieceNames[code]; ok {
		return name
	}
	return "empty"
}

// CountPieces counts the pieces on a board, each counted once
func CountPieces(b board.Board) int {
	count := 0
	for _, n := range b.Inventory() {
		count += n
	}
	return count
}

// CountEmpties counts the empty cells on a board
func CountEmpties(b board.Board) int {
	count := 0
	for _, row := range b {
		for _, code := range row {
			if code == board.Empty {
				count++
			}
		}
	}
	return count
}
