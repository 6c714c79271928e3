package automatic

// Evaluation of players over many games, possibly in parallel.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/stats"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("gamesCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// GameLogHeader is the CSV header for lines sent on EvalOptions.GameLog.
const GameLogHeader = "gameID,seed,score,moves,gameover\n"

// EvalOptions describe the games an evaluation plays.
type EvalOptions struct {
	Rows, Cols int
	Policy     bag.Policy
	// MaxMoves caps each game; 0 plays until game over.
	MaxMoves int
	Threads  int
	// GameLog, if not nil, receives one CSV line per finished game.
	GameLog chan<- string
}

// EvalOptionsFromConfig reads board, generator, move cap and thread count
// from cfg.
func EvalOptionsFromConfig(cfg *config.Config) EvalOptions {
	return EvalOptions{
		Rows:     cfg.GetInt(config.ConfigRows),
		Cols:     cfg.GetInt(config.ConfigCols),
		Policy:   bag.Policy(cfg.GetString(config.ConfigGenerator)),
		MaxMoves: cfg.GetInt(config.ConfigMaxMoves),
		Threads:  cfg.GetInt(config.ConfigThreads),
	}
}

// EvalResult holds per-game outcomes in seed order, and their summaries.
type EvalResult struct {
	Results []Result
	Score   stats.Statistic
	Moves   stats.Statistic
}

// Scores returns every game's score in seed order.
func (e *EvalResult) Scores() []float64 {
	out := make([]float64, len(e.Results))
	for i, r := range e.Results {
		out[i] = float64(r.Score)
	}
	return out
}

// Evaluate plays one game per seed with p and summarizes the results. The
// player is shared by all goroutines and must only read the games it is
// given. The outcome does not depend on the thread count.
func Evaluate(ctx context.Context, p turnplayer.AITurnPlayer, seeds []uint64,
	opts EvalOptions) (*EvalResult, error) {

	logger := zerolog.Ctx(ctx)
	threads := max(opts.Threads, 1)
	results := make([]Result, len(seeds))

	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(threads)
	for i, seed := range seeds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen, err := bag.NewGenerator(opts.Policy, seed)
			if err != nil {
				return err
			}
			r := NewGameRunnerFromParts(game.NewGame(opts.Rows, opts.Cols, gen),
				p, opts.MaxMoves, nil)
			r.SetGameID(fmt.Sprintf("g%d", i))
			results[i] = r.PlayGame(ctx)
			GamesCounter.Add(1)
			if opts.GameLog != nil {
				opts.GameLog <- fmt.Sprintf("g%d,%d,%d,%d,%v\n", i, seed,
					results[i].Score, results[i].Moves, results[i].GameOver)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	er := &EvalResult{Results: results}
	for _, r := range results {
		er.Score.Push(float64(r.Score))
		er.Moves.Push(float64(r.Moves))
	}
	logger.Debug().Int("games", len(seeds)).Float64("mean-score", er.Score.Mean()).
		Float64("mean-moves", er.Moves.Mean()).Msg("evaluation-done")
	return er, nil
}

// PlayGames evaluates the configured player, one game per seed, and writes
// one CSV line per game to outputFilename.
func PlayGames(ctx context.Context, cfg *config.Config, seeds []uint64,
	outputFilename string) (*EvalResult, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	p, err := turnplayer.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logfile, err := os.Create(outputFilename)
	if err != nil {
		return nil, err
	}
	opts := EvalOptionsFromConfig(cfg)
	log.Debug().Msgf("Starting %v games, %v threads", len(seeds), opts.Threads)
	GamesCounter.Set(0)

	logChan := make(chan string, 100)
	opts.GameLog = logChan
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logfile.WriteString(GameLogHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		logfile.Close()
		log.Debug().Msg("Exiting game logger goroutine!")
	}()

	res, err := Evaluate(ctx, p, seeds, opts)
	close(logChan)
	wg.Wait()
	return res, err
}
