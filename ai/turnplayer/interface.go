// Package turnplayer contains the computer players: a greedy one-ply player
// and a two-ply player that looks ahead to the known next piece.
package turnplayer

import (
	"errors"
	"fmt"

	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
)

const (
	StaticPlayerName    = "static"
	LookaheadPlayerName = "lookahead"
)

var ErrUnknownPlayer = errors.New("unknown player type")

// ScoredMove is a move with the value a player assigned to it.
type ScoredMove struct {
	Move   move.Move
	Equity float64
}

func (s ScoredMove) String() string {
	return fmt.Sprintf("%v %.4f", s.Move, s.Equity)
}

type AITurnPlayer interface {
	// BestMove returns the chosen move. ok is false if no move is legal; the
	// caller should then drop the piece one row instead.
	BestMove(g *game.Game) (m move.Move, ok bool)
	// GenerateMoves returns up to numPlays legal moves, best first.
	GenerateMoves(g *game.Game, numPlays int) []ScoredMove
	Type() string
}

// NewFromConfig creates the player named by the player key, evaluating
// positions with the configured weights. The evaluator is optionally
// memoized, and optionally penalizes positions that end the game.
func NewFromConfig(cfg *config.Config) (AITurnPlayer, error) {
	w, err := equity.WeightsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	var calc equity.EquityCalculator = equity.NewLinearCalculator(w)
	if frac := cfg.GetFloat64(config.ConfigEvalCache); frac > 0 {
		calc = equity.NewCachedCalculator(calc, frac)
	}
	if penalty := cfg.GetFloat64(config.ConfigGameOverPenalty); penalty != 0 {
		calc = equity.NewCombinedCalculator(calc, equity.GameOverPenalty{Penalty: penalty})
	}
	switch name := cfg.GetString(config.ConfigPlayer); name {
	case StaticPlayerName:
		return NewStaticPlayer(calc), nil
	case LookaheadPlayerName:
		return NewLookaheadPlayer(cfg.GetInt(config.ConfigBeamWidth),
			cfg.GetInt(config.ConfigLookaheadThreads), calc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
}
