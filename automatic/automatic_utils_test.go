package automatic

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
)

func testOpts(threads int) EvalOptions {
	return EvalOptions{Rows: 20, Cols: 10, Policy: bag.PolicyClassic, MaxMoves: 30, Threads: threads}
}

func TestEvaluateThreadIndependent(t *testing.T) {
	is := is.New(t)
	p := turnplayer.NewStaticPlayer(equity.NewLinearCalculator(equity.DefaultWeights))
	seeds := DeriveSeeds(10, 6)
	one, err := Evaluate(context.Background(), p, seeds, testOpts(1))
	is.NoErr(err)
	four, err := Evaluate(context.Background(), p, seeds, testOpts(4))
	is.NoErr(err)
	is.Equal(one.Results, four.Results)
	is.Equal(one.Score.Iterations(), 6)
	is.Equal(one.Scores(), four.Scores())
	is.Equal(one.Moves.Mean(), 30.0)
}

func TestEvaluateBadPolicy(t *testing.T) {
	is := is.New(t)
	p := turnplayer.NewStaticPlayer(equity.NewLinearCalculator(equity.DefaultWeights))
	opts := testOpts(2)
	opts.Policy = "nope"
	_, err := Evaluate(context.Background(), p, []uint64{1, 2}, opts)
	is.True(err != nil)
}

func TestPlayGamesAndAnalyze(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMaxMoves, 20)
	cfg.Set(config.ConfigThreads, 2)
	out := filepath.Join(t.TempDir(), "games.csv")

	res, err := PlayGames(context.Background(), &cfg, DeriveSeeds(4, 5), out)
	is.NoErr(err)
	is.Equal(len(res.Results), 5)

	bts, err := os.ReadFile(out)
	is.NoErr(err)
	lines := strings.Split(strings.TrimSpace(string(bts)), "\n")
	is.Equal(len(lines), 6)
	is.Equal(lines[0]+"\n", GameLogHeader)

	summary, err := AnalyzeLogFile(out)
	is.NoErr(err)
	is.True(strings.Contains(summary, "Games played: 5"))
}

func TestSeedsRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := append(GenerateSeeds(3), 0, 18446744073709551615)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)

	is.Equal(DeriveSeeds(9, 4), DeriveSeeds(9, 4))
}

func BenchmarkEvaluate(b *testing.B) {
	p := turnplayer.NewStaticPlayer(equity.NewLinearCalculator(equity.DefaultWeights))
	seeds := DeriveSeeds(1, 4)
	for i := 0; i < b.N; i++ {
		Evaluate(context.Background(), p, seeds, testOpts(4))
	}
}
