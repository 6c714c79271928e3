package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/stacker/game"
)

// CombinedCalculator adds up the equities of several calculators, for
// example a linear evaluator plus a game-over penalty.
type CombinedCalculator struct {
	calculators []EquityCalculator
}

func NewCombinedCalculator(calcs ...EquityCalculator) *CombinedCalculator {
	return &CombinedCalculator{calculators: calcs}
}

func (c *CombinedCalculator) Equity(g *game.Game) float64 {
	return lo.SumBy(c.calculators, func(ec EquityCalculator) float64 {
		return ec.Equity(g)
	})
}

func (c *CombinedCalculator) Type() string {
	return "CombinedCalculator"
}

// GameOverPenalty returns Penalty for finished games and 0 otherwise.
type GameOverPenalty struct {
	Penalty float64
}

func (p GameOverPenalty) Equity(g *game.Game) float64 {
	if g.GameOver() {
		return p.Penalty
	}
	return 0
}

func (p GameOverPenalty) Type() string {
	return "GameOverPenalty"
}
