package equity

import "github.com/domino14/stacker/game"

// EquityCalculator scores a game position. Higher is better. Calculators
// only read the game; they never modify it.
type EquityCalculator interface {
	Equity(g *game.Game) float64
	Type() string
}
