package equity

import (
	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
)

// ColumnHeights returns, per column, the number of rows from the topmost
// occupied cell down to the floor; 0 for an empty column.
func ColumnHeights(b *board.Board) []int {
	return b.ColumnHeights()
}

// AggregateHeight is the sum of the column heights.
func AggregateHeight(b *board.Board) int {
	total := 0
	for _, h := range b.ColumnHeights() {
		total += h
	}
	return total
}

// Holes counts empty cells that have an occupied cell somewhere above them
// in the same column.
func Holes(b *board.Board) int {
	holes := 0
	for x := 0; x < b.Cols(); x++ {
		covered := false
		for y := 0; y < b.Rows(); y++ {
			if b.Cell(x, y) != board.Empty {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return holes
}

// Bumpiness is the sum of absolute height differences between adjacent
// columns.
func Bumpiness(b *board.Board) int {
	heights := b.ColumnHeights()
	bump := 0
	for i := 0; i+1 < len(heights); i++ {
		d := heights[i] - heights[i+1]
		if d < 0 {
			d = -d
		}
		bump += d
	}
	return bump
}

// CompleteLines is the number of rows cleared by the most recent lock. The
// board after a lock never has full rows left, so this is the count recorded
// at commit time rather than a rescan.
func CompleteLines(g *game.Game) int {
	return g.LinesCleared()
}

// Features holds the four raw feature values of a position.
type Features struct {
	AggregateHeight int
	CompleteLines   int
	Holes           int
	Bumpiness       int
}

// Extract computes every feature of g's position. The board is scanned
// once for heights.
func Extract(g *game.Game) Features {
	b := g.Board()
	heights := b.ColumnHeights()
	f := Features{
		CompleteLines: CompleteLines(g),
		Holes:         Holes(b),
	}
	for i, h := range heights {
		f.AggregateHeight += h
		if i+1 < len(heights) {
			d := h - heights[i+1]
			if d < 0 {
				d = -d
			}
			f.Bumpiness += d
		}
	}
	return f
}

// Vector returns the features in weight order.
func (f Features) Vector() [NumFeatures]float64 {
	return [NumFeatures]float64{
		float64(f.AggregateHeight),
		float64(f.CompleteLines),
		float64(f.Holes),
		float64(f.Bumpiness),
	}
}
