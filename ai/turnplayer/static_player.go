package turnplayer

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/game"
	"github.com/domino14/stacker/move"
	"github.com/domino14/stacker/movegen"
)

// StaticPlayer is the greedy player: it simulates every placement of the
// current piece and picks the one whose resulting position scores highest.
type StaticPlayer struct {
	calculators []equity.EquityCalculator
}

func NewStaticPlayer(calcs ...equity.EquityCalculator) *StaticPlayer {
	return &StaticPlayer{calculators: calcs}
}

// Evaluate sums the equities of every calculator for g.
func (p *StaticPlayer) Evaluate(g *game.Game) float64 {
	return lo.SumBy(p.calculators, func(c equity.EquityCalculator) float64 {
		return c.Equity(g)
	})
}

// scoredMoves simulates each enumerated move, dropping illegal ones. The
// result keeps enumeration order.
func (p *StaticPlayer) scoredMoves(g *game.Game) []ScoredMove {
	moves := movegen.GenerateMoves(g)
	scored := make([]ScoredMove, 0, len(moves))
	for _, m := range moves {
		sim := movegen.Simulate(g, m)
		if sim == nil {
			continue
		}
		scored = append(scored, ScoredMove{Move: m, Equity: p.Evaluate(sim)})
	}
	return scored
}

// BestMove returns the first move, in enumeration order, with the strictly
// highest score.
func (p *StaticPlayer) BestMove(g *game.Game) (move.Move, bool) {
	return bestOf(p.scoredMoves(g))
}

func (p *StaticPlayer) GenerateMoves(g *game.Game, numPlays int) []ScoredMove {
	return TopPlays(p.scoredMoves(g), numPlays)
}

func (p *StaticPlayer) Type() string {
	return StaticPlayerName
}

func bestOf(scored []ScoredMove) (move.Move, bool) {
	if len(scored) == 0 {
		return move.Move{}, false
	}
	best := scored[0]
	for _, s := range scored[1:] {
		if s.Equity > best.Equity {
			best = s
		}
	}
	return best.Move, true
}

// TopPlays sorts plays by descending equity, keeping enumeration order among
// equal scores, and returns the first ct of them. ct <= 0 means all.
func TopPlays(plays []ScoredMove, ct int) []ScoredMove {
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Equity > plays[j].Equity
	})
	if ct <= 0 || ct > len(plays) {
		ct = len(plays)
	}
	return plays[:ct]
}
