package engine

import (
	"testing"

	"github.com/giraffishh/klotski/game/board"
)

func TestPieceName(t *testing.T) {
	tests := []struct {
		code     uint8
		expected string
	}{
		{board.CellSoldier, "soldier"},
		{board.CellHorizontal, "horizontal"},
		{board.CellVertical, "vertical"},
		{board.CellGeneral, "general"},
		{board.CellEmpty, "empty"},
		{board.CellInvalid, "empty"},
	}

	for _, test := range tests {
		if got := pieceName(test.code); got != test.expected {
			t.Errorf("Expected pieceName(%d) = %q, got %q", test.code, test.expected, got)
		}
	}
}

func TestCountPieces(t *testing.T) {
	if got := CountPieces(DefaultPuzzle().Board); got != 10 {
		t.Errorf("Expected 10 pieces on the classic board, got %d", got)
	}
	if got := CountPieces(board.New()); got != 0 {
		t.Errorf("Expected 0 pieces on an empty board, got %d", got)
	}
	if got := CountPieces(createTestConfig().Board); got != 2 {
		t.Errorf("Expected 2 pieces on the test board, got %d", got)
	}
}

func TestCountEmpties(t *testing.T) {
	if got := CountEmpties(DefaultPuzzle().Board); got != 2 {
		t.Errorf("Expected 2 empty cells on the classic board, got %d", got)
	}
	if got := CountEmpties(board.New()); got != board.Cells {
		t.Errorf("Expected %d empty cells on an empty board, got %d", board.Cells, got)
	}
}
