package game

import (
	"fmt"
	"strings"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/piece"
)

// State is a read-only snapshot for renderers and training loops.
type State struct {
	Grid         [][]board.Cell
	CurrentCells []piece.Cell
	CurrentColor piece.RGB
	NextShape    piece.Shape
	Score        int
	Level        int
	GameOver     bool
}

// State returns a snapshot of the game. The grid is a copy.
func (g *Game) State() State {
	return State{
		Grid:         g.board.Grid(),
		CurrentCells: g.current.Cells(),
		CurrentColor: g.current.Color(),
		NextShape:    g.next.Shape(),
		Score:        g.score,
		Level:        g.level,
		GameOver:     g.playing == GameOver,
	}
}

// ToDisplayText turns the current state of the game into a displayable
// string.
func (g *Game) ToDisplayText() string {
	var cur *piece.Piece
	if g.playing != GameOver {
		c := g.current
		cur = &c
	}
	bt := g.board.ToDisplayText(cur)
	lines := strings.Split(bt, "\n")
	info := []string{
		fmt.Sprintf("Score: %d", g.score),
		fmt.Sprintf("Level: %d", g.level),
		fmt.Sprintf("Moves: %d", g.movesPlayed),
		fmt.Sprintf("Current: %v", g.current.Shape()),
		fmt.Sprintf("Next: %v", g.next.Shape()),
		fmt.Sprintf("State: %v", g.playing),
	}
	for i, s := range info {
		row := i + 2
		if row >= len(lines) {
			break
		}
		lines[row] = lines[row] + "   " + s
	}
	return strings.Join(lines, "\n")
}
