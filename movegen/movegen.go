// Package movegen enumerates the placements available to the current piece
// and simulates them on copies of the game.
package movegen

import (
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
)

// MaxRotations is how many clockwise rotations a move may request. Shapes
// with fewer rotation states produce repeated geometries.
const MaxRotations = 4

// GenerateMoves returns every (rotation, column) pair for which the rotated
// current piece, moved to that column in its current row, is a valid
// position. Rotations come first (0 through 3), then columns in ascending
// order. Geometric duplicates are kept. An empty result means the piece has
// nowhere to go.
func GenerateMoves(g *game.Game) []move.Move {
	b := g.Board()
	cols := b.Cols()
	probe := g.CurrentPiece()
	moves := make([]move.Move, 0, MaxRotations*cols)
	for r := 0; r < MaxRotations; r++ {
		if r > 0 {
			probe.Rotate(true)
		}
		minCol, maxCol, ok := probe.MinMaxColumn()
		if !ok {
			continue
		}
		for x := -minCol; x <= cols-1-maxCol; x++ {
			probe.X = x
			if b.IsValidPosition(probe) {
				moves = append(moves, move.Move{Rotations: r, X: x})
			}
		}
	}
	return moves
}

// Simulate plays m on a deep copy of g and returns the copy, or nil if the
// rotated piece does not fit at column m.X in its current row. g is never
// modified, including its piece generator.
func Simulate(g *game.Game, m move.Move) *game.Game {
	sim := g.Copy()
	if !sim.PlayMove(m) {
		return nil
	}
	return sim
}
