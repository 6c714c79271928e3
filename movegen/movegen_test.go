package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

func gameWith(t *testing.T, cur, next piece.Shape) *game.Game {
	gen, err := bag.NewGenerator(bag.PolicyClassic, 99)
	if err != nil {
		t.Fatal(err)
	}
	g := game.NewGame(board.DefaultRows, board.DefaultCols, gen)
	p := piece.New(cur)
	p.X = (g.Board().Cols() - p.Width()) / 2
	g.SetCurrentPiece(p)
	g.SetNextPiece(piece.New(next))
	return g
}

type geometry struct {
	rotation int
	x        int
}

func TestIPieceOnEmptyBoard(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.I, piece.O)
	moves := GenerateMoves(g)
	is.Equal(len(moves), 34)

	distinct := map[geometry]bool{}
	for _, m := range moves {
		distinct[geometry{m.Rotations % piece.NumRotations(piece.I), m.X}] = true
	}
	is.Equal(len(distinct), 17)

	// Ordering: rotation first, then ascending column.
	is.Equal(moves[0], move.Move{Rotations: 0, X: 0})
	is.Equal(moves[6], move.Move{Rotations: 0, X: 6})
	is.Equal(moves[7], move.Move{Rotations: 1, X: -2})
	is.Equal(moves[16], move.Move{Rotations: 1, X: 7})
	is.Equal(moves[33], move.Move{Rotations: 3, X: 7})
}

func TestOPieceRepeatsGeometry(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.O, piece.I)
	moves := GenerateMoves(g)
	is.Equal(len(moves), 4*9)
}

func TestSimulateHorizontalI(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.I, piece.O)
	sim := Simulate(g, move.Move{Rotations: 0, X: 0})
	is.True(sim != nil)
	for x := 0; x < 4; x++ {
		is.True(sim.Board().Cell(x, 19) != board.Empty)
	}
	is.Equal(sim.Board().ColumnHeights(), []int{1, 1, 1, 1, 0, 0, 0, 0, 0, 0})
	is.Equal(sim.LinesCleared(), 0)
	is.Equal(sim.Score(), 0)
	is.Equal(sim.MovesPlayed(), 1)
}

func TestSimulateDoesNotMutate(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.T, piece.S)
	g.HardDrop()
	cells := g.Board().Cells()
	cur, next := g.CurrentPiece(), g.NextPiece()

	for _, m := range GenerateMoves(g) {
		Simulate(g, m)
	}
	is.Equal(g.Board().Cells(), cells)
	is.Equal(g.CurrentPiece(), cur)
	is.Equal(g.NextPiece(), next)
	is.Equal(g.MovesPlayed(), 1)

	// The live generator was not advanced by any simulation.
	ref := g.Copy()
	g.HardDrop()
	ref.HardDrop()
	is.Equal(g.NextPiece().Shape(), ref.NextPiece().Shape())
}

// rotatedTo applies m's rotation and column to the current piece.
func rotatedTo(g *game.Game, m move.Move) piece.Piece {
	p := g.CurrentPiece()
	for i := 0; i < m.Rotations; i++ {
		p.Rotate(true)
	}
	p.X = m.X
	return p
}

// Every enumerated move is a valid position, and every valid placement is
// enumerated.
func TestEnumerationSoundAndComplete(t *testing.T) {
	is := is.New(t)
	for _, s := range piece.AllShapes {
		g := gameWith(t, s, piece.I)
		// Some clutter near the top so that collisions matter.
		g.Board().SetCell(0, 2, board.Filled)
		g.Board().SetCell(9, 1, board.Filled)
		g.Board().SetCell(5, 3, board.Filled)
		moves := GenerateMoves(g)
		is.True(len(moves) > 0)
		seen := map[move.Move]bool{}
		for _, m := range moves {
			seen[m] = true
			is.True(g.Board().IsValidPosition(rotatedTo(g, m)))
		}
		for r := 0; r < MaxRotations; r++ {
			for x := -4; x < g.Board().Cols()+4; x++ {
				m := move.Move{Rotations: r, X: x}
				if g.Board().IsValidPosition(rotatedTo(g, m)) {
					is.True(seen[m])
				}
			}
		}
	}
}

func TestNoMovesWhenSpawnAreaFilled(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.I, piece.O)
	for y := 0; y < 2; y++ {
		for x := 0; x < g.Board().Cols(); x++ {
			g.Board().SetCell(x, y, board.Filled)
		}
	}
	is.Equal(len(GenerateMoves(g)), 0)
}

func TestBlockedColumnsSkipped(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.O, piece.T)
	g.Board().SetCell(0, 0, board.Filled)
	moves := GenerateMoves(g)
	// Column 0 is unreachable for the O in every rotation.
	is.Equal(len(moves), 4*8)
	for _, m := range moves {
		is.True(m.X != 0)
	}
}

func TestSimulateBlocked(t *testing.T) {
	is := is.New(t)
	g := gameWith(t, piece.O, piece.T)
	// Block the spawn row at column 0.
	g.Board().SetCell(0, 0, board.Filled)
	is.True(Simulate(g, move.Move{Rotations: 0, X: 0}) == nil)
	is.True(Simulate(g, move.Move{Rotations: 0, X: 2}) != nil)
}

func BenchmarkGenerateAndSimulate(b *testing.B) {
	gen, _ := bag.NewGenerator(bag.PolicyClassic, 1)
	g := game.NewGame(board.DefaultRows, board.DefaultCols, gen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range GenerateMoves(g) {
			Simulate(g, m)
		}
	}
}
