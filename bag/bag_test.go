package bag

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/stacker/piece"
)

func draw(g Generator, n int) []piece.Shape {
	out := make([]piece.Shape, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func TestSevenBagDealsEveryShape(t *testing.T) {
	is := is.New(t)
	b := NewSevenBag(42)
	for round := 0; round < 20; round++ {
		seen := map[piece.Shape]int{}
		for _, s := range draw(b, piece.NumShapes) {
			seen[s]++
		}
		is.Equal(len(seen), piece.NumShapes)
		for _, ct := range seen {
			is.Equal(ct, 1)
		}
		is.Equal(b.Remaining(), 0)
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	is := is.New(t)
	for _, policy := range []Policy{PolicyRandom, PolicyClassic} {
		g1, err := NewGenerator(policy, 1234)
		is.NoErr(err)
		g2, err := NewGenerator(policy, 1234)
		is.NoErr(err)
		is.Equal(draw(g1, 50), draw(g2, 50))
		is.Equal(g1.Policy(), policy)
	}
}

func TestCopyDoesNotAdvanceOriginal(t *testing.T) {
	is := is.New(t)
	for _, policy := range []Policy{PolicyRandom, PolicyClassic} {
		g, err := NewGenerator(policy, 99)
		is.NoErr(err)
		draw(g, 3)
		c := g.Copy()
		fromCopy := draw(c, 30)
		fromOrig := draw(g, 30)
		is.Equal(fromCopy, fromOrig)
	}
}

func TestRandomGeneratorCoversAllShapes(t *testing.T) {
	is := is.New(t)
	g := NewRandomGenerator(7)
	seen := map[piece.Shape]bool{}
	for _, s := range draw(g, 1000) {
		is.True(s.Valid())
		seen[s] = true
	}
	is.Equal(len(seen), piece.NumShapes)
}

func TestUnknownPolicy(t *testing.T) {
	is := is.New(t)
	_, err := NewGenerator("tetris-friends", 1)
	is.True(errors.Is(err, ErrUnknownPolicy))
}

func TestUnseeded(t *testing.T) {
	is := is.New(t)
	g, err := NewUnseededGenerator(PolicyClassic)
	is.NoErr(err)
	is.True(g.Next().Valid())
}
