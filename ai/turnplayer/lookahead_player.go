package turnplayer

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/movegen"
)

// LookaheadPlayer is the two-ply player. For every first-ply placement it
// adds the best score reachable by placing the known next piece afterwards,
// and picks the first-ply move with the highest total.
type LookaheadPlayer struct {
	StaticPlayer
	// beamWidth limits how many first-ply moves, best first, are expanded.
	// 0 expands all of them.
	beamWidth int
	threads   int
}

func NewLookaheadPlayer(beamWidth, threads int, calcs ...equity.EquityCalculator) *LookaheadPlayer {
	return &LookaheadPlayer{
		StaticPlayer: StaticPlayer{calculators: calcs},
		beamWidth:    max(beamWidth, 0),
		threads:      max(threads, 1),
	}
}

type firstPly struct {
	ScoredMove
	sim *game.Game
}

// bestSecond is the best score over all legal placements of sim's current
// piece, or 0 if there are none.
func (p *LookaheadPlayer) bestSecond(sim *game.Game) float64 {
	if sim.GameOver() {
		return 0
	}
	best := math.Inf(-1)
	for _, m := range movegen.GenerateMoves(sim) {
		sim2 := movegen.Simulate(sim, m)
		if sim2 == nil {
			continue
		}
		if s := p.Evaluate(sim2); s > best {
			best = s
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// Expand returns the beam of first-ply moves, ordered by first-ply score,
// with their two-ply totals as Equity. It stops early with ctx's error if
// ctx is done.
func (p *LookaheadPlayer) Expand(ctx context.Context, g *game.Game) ([]ScoredMove, error) {
	moves := movegen.GenerateMoves(g)
	plies := make([]firstPly, 0, len(moves))
	for _, m := range moves {
		sim := movegen.Simulate(g, m)
		if sim == nil {
			continue
		}
		plies = append(plies, firstPly{ScoredMove{m, p.Evaluate(sim)}, sim})
	}
	// Sort by first-ply score only; stable so ties keep enumeration order.
	sort.SliceStable(plies, func(i, j int) bool {
		return plies[i].Equity > plies[j].Equity
	})
	if p.beamWidth > 0 && len(plies) > p.beamWidth {
		plies = plies[:p.beamWidth]
	}

	totals := make([]ScoredMove, len(plies))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.threads)
	for i, fp := range plies {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			totals[i] = ScoredMove{Move: fp.Move, Equity: fp.Equity + p.bestSecond(fp.sim)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}

func (p *LookaheadPlayer) BestMove(g *game.Game) (move.Move, bool) {
	totals, err := p.Expand(context.Background(), g)
	if err != nil {
		log.Err(err).Msg("lookahead-expand-failed")
		return move.Move{}, false
	}
	return bestOf(totals)
}

func (p *LookaheadPlayer) GenerateMoves(g *game.Game, numPlays int) []ScoredMove {
	totals, err := p.Expand(context.Background(), g)
	if err != nil {
		log.Err(err).Msg("lookahead-expand-failed")
		return nil
	}
	return TopPlays(totals, numPlays)
}

func (p *LookaheadPlayer) Type() string {
	return LookaheadPlayerName
}
