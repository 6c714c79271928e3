// Package automatic plays games with no human in the loop: one game at a
// time through a GameRunner, or many in parallel for evaluating a player.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
)

// TurnLogHeader is the CSV header for lines sent on a runner's log channel.
const TurnLogHeader = "gameID,turn,piece,next,play,equity,score,lines\n"

// GameRunner drives a single game with a computer player.
type GameRunner struct {
	game     *game.Game
	aiplayer turnplayer.AITurnPlayer
	maxMoves int
	gameID   string
	logchan  chan string

	forcedDrops int
}

// NewGameRunner creates a game and a player from cfg.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	g, err := game.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	p, err := turnplayer.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewGameRunnerFromParts(g, p, cfg.GetInt(config.ConfigMaxMoves), logchan), nil
}

// NewGameRunnerFromParts wraps an existing game and player. maxMoves of 0
// means the game runs until it is over.
func NewGameRunnerFromParts(g *game.Game, p turnplayer.AITurnPlayer, maxMoves int,
	logchan chan string) *GameRunner {
	return &GameRunner{game: g, aiplayer: p, maxMoves: maxMoves, logchan: logchan}
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

func (r *GameRunner) Player() turnplayer.AITurnPlayer {
	return r.aiplayer
}

func (r *GameRunner) SetGameID(id string) {
	r.gameID = id
}

// ForcedDrops counts turns on which the player had no legal move.
func (r *GameRunner) ForcedDrops() int {
	return r.forcedDrops
}

// Finished is true once the game is over or the move cap is reached.
func (r *GameRunner) Finished() bool {
	return r.game.GameOver() || (r.maxMoves > 0 && r.game.MovesPlayed() >= r.maxMoves)
}

// PlayBestTurn asks the player for a move and plays it. If the player has
// no legal move the piece is dropped one row instead, and ok is false.
func (r *GameRunner) PlayBestTurn() (m move.Move, ok bool) {
	cur, next := r.game.CurrentPiece().Shape(), r.game.NextPiece().Shape()
	turn := r.game.MovesPlayed()
	var equity float64
	if r.logchan != nil {
		plays := r.aiplayer.GenerateMoves(r.game, 1)
		if len(plays) > 0 {
			m, ok = plays[0].Move, true
			equity = plays[0].Equity
		}
	} else {
		m, ok = r.aiplayer.BestMove(r.game)
	}
	if !ok || !r.game.PlayMove(m) {
		r.forcedDrops++
		r.game.DropPiece()
		return m, false
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%d,%v,%v,%v,%.4f,%d,%d\n",
			r.gameID, turn, cur, next, m, equity, r.game.Score(), r.game.LinesCleared())
	}
	return m, true
}

// Result summarizes one finished game.
type Result struct {
	Score       int
	Moves       int
	GameOver    bool
	ForcedDrops int
}

// PlayGame plays turns until the game is over, the move cap is reached, or
// ctx is done.
func (r *GameRunner) PlayGame(ctx context.Context) Result {
	logger := zerolog.Ctx(ctx)
	for !r.Finished() {
		if ctx.Err() != nil {
			logger.Debug().Str("gameID", r.gameID).Msg("game-interrupted")
			break
		}
		r.PlayBestTurn()
	}
	res := Result{
		Score:       r.game.Score(),
		Moves:       r.game.MovesPlayed(),
		GameOver:    r.game.GameOver(),
		ForcedDrops: r.forcedDrops,
	}
	logger.Debug().Str("gameID", r.gameID).Int("score", res.Score).
		Int("moves", res.Moves).Bool("game-over", res.GameOver).Msg("game-finished")
	return res
}
