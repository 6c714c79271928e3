package automatic

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/piece"
)

var DefaultConfig = config.DefaultConfig()

func newRunner(t *testing.T, seed uint64, maxMoves int, logchan chan string) *GameRunner {
	gen, err := bag.NewGenerator(bag.PolicyClassic, seed)
	if err != nil {
		t.Fatal(err)
	}
	g := game.NewGame(board.DefaultRows, board.DefaultCols, gen)
	p := turnplayer.NewStaticPlayer(equity.NewLinearCalculator(equity.DefaultWeights))
	return NewGameRunnerFromParts(g, p, maxMoves, logchan)
}

func TestNewGameRunnerFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSeed, 5)
	cfg.Set(config.ConfigMaxMoves, 3)
	r, err := NewGameRunner(nil, &cfg)
	is.NoErr(err)
	res := r.PlayGame(context.Background())
	is.Equal(res.Moves, 3)
	is.True(r.Finished())
}

func TestPlayGameRespectsMaxMoves(t *testing.T) {
	is := is.New(t)
	r := newRunner(t, 1, 40, nil)
	res := r.PlayGame(context.Background())
	is.Equal(res.Moves, 40)
	is.True(!res.GameOver)
	is.Equal(res.ForcedDrops, 0)
	// The greedy player clears lines well before 40 pieces on a 10-wide
	// board.
	is.True(res.Score > 0)
}

func TestPlayGameIsDeterministic(t *testing.T) {
	is := is.New(t)
	a := newRunner(t, 77, 60, nil).PlayGame(context.Background())
	b := newRunner(t, 77, 60, nil).PlayGame(context.Background())
	is.Equal(a, b)
}

func TestForcedDrop(t *testing.T) {
	is := is.New(t)
	r := newRunner(t, 1, 0, nil)
	g := r.Game()
	// The I sits inside two filled rows, so no placement from its row fits.
	for y := 0; y < 2; y++ {
		for x := 0; x < board.DefaultCols; x++ {
			g.Board().SetCell(x, y, board.Filled)
		}
	}
	g.SetCurrentPiece(piece.New(piece.I))
	_, ok := r.PlayBestTurn()
	is.True(!ok)
	is.Equal(r.ForcedDrops(), 1)
	is.Equal(g.CurrentPiece().Y, 1)
	is.Equal(g.MovesPlayed(), 0)
}

func TestTurnLog(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 100)
	r := newRunner(t, 3, 5, logchan)
	r.SetGameID("abc")
	r.PlayGame(context.Background())
	close(logchan)
	n := 0
	for line := range logchan {
		fields := strings.Split(strings.TrimSpace(line), ",")
		is.Equal(len(fields), strings.Count(TurnLogHeader, ",")+1)
		is.Equal(fields[0], "abc")
		n++
	}
	is.Equal(n, 5)
}

func TestContextCancel(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := newRunner(t, 1, 0, nil).PlayGame(ctx)
	is.Equal(res.Moves, 0)
}
