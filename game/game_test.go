package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/piece"
)

func newTestGame(t *testing.T) *Game {
	gen, err := bag.NewGenerator(bag.PolicyClassic, 42)
	if err != nil {
		t.Fatal(err)
	}
	return NewGame(board.DefaultRows, board.DefaultCols, gen)
}

// withPieces makes the current piece an unrotated copy of cur at spawn and
// sets the next piece.
func withPieces(g *Game, cur, next piece.Shape) {
	p := piece.New(cur)
	p.X = (g.Board().Cols() - p.Width()) / 2
	g.SetCurrentPiece(p)
	g.SetNextPiece(piece.New(next))
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	is.Equal(g.Score(), 0)
	is.Equal(g.MovesPlayed(), 0)
	is.True(!g.GameOver())
	is.Equal(g.Board().Cells(), board.NewBoard(20, 10).Cells())
	is.Equal(g.CurrentPiece().Y, 0)
	is.True(g.Board().IsValidPosition(g.CurrentPiece()))
}

func TestNewFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSeed, 7)
	cfg.Set(config.ConfigRows, 12)
	cfg.Set(config.ConfigCols, 8)
	g, err := NewFromConfig(&cfg)
	is.NoErr(err)
	is.Equal(g.Board().Rows(), 12)
	is.Equal(g.Board().Cols(), 8)
	is.Equal(g.Policy(), bag.PolicyClassic)

	cfg.Set(config.ConfigGenerator, "bogus")
	_, err = NewFromConfig(&cfg)
	is.True(err != nil)
}

func TestMoveAndUndo(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.T, piece.O)
	orig := g.CurrentPiece()

	is.True(g.MovePiece(1, 0))
	is.True(g.MovePiece(-1, 0))
	is.Equal(g.CurrentPiece(), orig)

	// Walk into the left wall; the failed step leaves the piece in place.
	for g.MovePiece(-1, 0) {
	}
	p := g.CurrentPiece()
	is.Equal(p.X, 0)
	is.True(!g.MovePiece(-1, 0))
	is.Equal(g.CurrentPiece(), p)
}

func TestRotateRollsBack(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.I, piece.O)
	// Vertical I occupies matrix column 2; pushed to the right wall, rotating
	// back to horizontal would poke through it.
	is.True(g.RotatePiece(true))
	for g.MovePiece(1, 0) {
	}
	before := g.CurrentPiece()
	is.Equal(before.X, 7)
	is.True(!g.RotatePiece(true))
	is.Equal(g.CurrentPiece(), before)
}

func TestHardDropLocksPiece(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.O, piece.T)
	g.HardDrop()
	is.Equal(g.MovesPlayed(), 1)
	is.Equal(g.Score(), 0)
	is.Equal(g.Board().ColumnHeights(), []int{0, 0, 0, 0, 2, 2, 0, 0, 0, 0})
	is.Equal(g.CurrentPiece().Shape(), piece.T)
	is.Equal(g.CurrentPiece().Y, 0)
}

func TestDropPieceOneStep(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.O, piece.T)
	is.True(!g.DropPiece())
	is.Equal(g.CurrentPiece().Y, 1)
	is.Equal(g.MovesPlayed(), 0)
}

func TestClearingAddsToScore(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	b := g.Board()
	// Bottom row full except columns 4 and 5.
	for x := 0; x < b.Cols(); x++ {
		if x != 4 && x != 5 {
			b.SetCell(x, b.Rows()-1, board.Filled)
		}
	}
	withPieces(g, piece.O, piece.T)
	g.HardDrop()
	is.Equal(g.Score(), 1)
	is.Equal(g.LinesCleared(), 1)
	is.Equal(g.Board().ColumnHeights(), []int{0, 0, 0, 0, 1, 1, 0, 0, 0, 0})
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	b := g.Board()
	// Fill the top two rows except the rightmost column so nothing clears.
	for y := 0; y < 2; y++ {
		for x := 0; x < b.Cols()-1; x++ {
			b.SetCell(x, y, board.Filled)
		}
	}
	p := piece.New(piece.O)
	p.X, p.Y = 0, 10
	g.SetCurrentPiece(p)
	g.SetNextPiece(piece.New(piece.I))
	g.HardDrop()
	is.True(g.GameOver())
	is.Equal(g.Playing(), GameOver)
	moves := g.MovesPlayed()

	// Terminal state sticks, and ticking does nothing.
	is.True(!g.Tick())
	is.True(g.GameOver())
	is.Equal(g.MovesPlayed(), moves)

	g.Reset()
	is.True(!g.GameOver())
	is.Equal(g.MovesPlayed(), 0)
}

func TestFirstPieceCentered(t *testing.T) {
	is := is.New(t)
	for seed := uint64(1); seed <= 20; seed++ {
		gen, err := bag.NewGenerator(bag.PolicyRandom, seed)
		is.NoErr(err)
		g := NewGame(board.DefaultRows, board.DefaultCols, gen)
		cur := g.CurrentPiece()
		is.Equal(cur.X, (board.DefaultCols-cur.Width())/2)
		is.Equal(cur.Y, piece.SpawnY)
		// The waiting piece keeps the constructor anchor until promoted.
		is.Equal(g.NextPiece().X, piece.SpawnX)

		g.HardDrop()
		g.Reset()
		is.Equal(g.CurrentPiece(), cur)
	}
	// An O spawns one column right of the constructor anchor.
	g := newTestGame(t)
	o := piece.New(piece.O)
	o.X = (board.DefaultCols - o.Width()) / 2
	is.Equal(o.X, 4)
	g.SetNextPiece(piece.New(piece.O))
	g.NewPiece()
	is.Equal(g.CurrentPiece().X, 4)
}

func TestResetReplaysSequence(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	first := []piece.Shape{g.CurrentPiece().Shape(), g.NextPiece().Shape()}
	for i := 0; i < 5; i++ {
		g.HardDrop()
	}
	g.Reset()
	is.Equal([]piece.Shape{g.CurrentPiece().Shape(), g.NextPiece().Shape()}, first)
	is.Equal(g.Score(), 0)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	g.HardDrop()
	cells := g.Board().Cells()
	cur, next := g.CurrentPiece(), g.NextPiece()
	moves := g.MovesPlayed()

	c := g.Copy()
	for i := 0; i < 4; i++ {
		c.HardDrop()
	}
	is.Equal(g.Board().Cells(), cells)
	is.Equal(g.CurrentPiece(), cur)
	is.Equal(g.NextPiece(), next)
	is.Equal(g.MovesPlayed(), moves)

	// The copy's generator continues the same stream as the original's.
	c2 := g.Copy()
	for i := 0; i < 10; i++ {
		g.HardDrop()
		c2.HardDrop()
		is.Equal(g.NextPiece().Shape(), c2.NextPiece().Shape())
	}
}

func TestPlayMove(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.I, piece.O)
	is.True(g.PlayMove(move.Move{Rotations: 1, X: -2}))
	is.Equal(g.Board().ColumnHeights(), []int{4, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	is.Equal(g.MovesPlayed(), 1)

	before := g.CurrentPiece()
	is.True(!g.PlayMove(move.Move{Rotations: 0, X: 9}))
	is.Equal(g.CurrentPiece(), before)
	is.Equal(g.MovesPlayed(), 1)
}

func TestSwapPiece(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.T, piece.I)
	g.MovePiece(0, 3)
	is.True(g.SwapPiece())
	is.Equal(g.CurrentPiece().Shape(), piece.I)
	is.Equal(g.CurrentPiece().Y, 3)
	is.Equal(g.NextPiece().Shape(), piece.T)
	is.Equal(g.NextPiece().Y, 0)

	// The T would stick out to the right of the O into a filled cell.
	g.Board().SetCell(6, 4, board.Filled)
	withPieces(g, piece.O, piece.T)
	is.True(g.MovePiece(0, 3))
	cur, next := g.CurrentPiece(), g.NextPiece()
	is.True(!g.SwapPiece())
	is.Equal(g.CurrentPiece(), cur)
	is.Equal(g.NextPiece(), next)
}

func TestGhostPiece(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.O, piece.T)
	ghost := g.GhostPiece()
	is.Equal(ghost.Y, 18)
	is.Equal(ghost.X, g.CurrentPiece().X)
	is.Equal(g.CurrentPiece().Y, 0)
}

func TestTickAndLevels(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t)
	withPieces(g, piece.O, piece.T)
	is.Equal(g.Level(), 0)
	for i := 0; i < GravityFrames(0)-1; i++ {
		is.True(!g.Tick())
	}
	is.True(g.Tick())
	is.Equal(g.CurrentPiece().Y, 1)

	g.SetStartLevel(29)
	is.Equal(g.Level(), 29)
	is.True(g.Tick())
	is.Equal(GravityFrames(100), 1)
	is.Equal(GravityFrames(-1), 48)
}
