package equity

import "github.com/domino14/stacker/game"

// Score is the weighted sum of the four features of g's position.
func Score(g *game.Game, w Weights) float64 {
	v := Extract(g).Vector()
	s := 0.0
	for i := range v {
		s += w[i] * v[i]
	}
	return s
}

// LinearCalculator scores positions with a fixed weight vector.
type LinearCalculator struct {
	weights Weights
}

func NewLinearCalculator(w Weights) *LinearCalculator {
	return &LinearCalculator{weights: w}
}

func (l *LinearCalculator) Equity(g *game.Game) float64 {
	return Score(g, l.weights)
}

func (l *LinearCalculator) Weights() Weights {
	return l.weights
}

func (l *LinearCalculator) Type() string {
	return "LinearCalculator"
}
