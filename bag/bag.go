// Package bag contains the piece-generation policies: uniform random
// choice, and the "classic" bag that deals all seven shapes before
// reshuffling.
package bag

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"lukechampine.com/frand"

	"github.com/domino14/stacker/piece"
)

// Policy names a piece-generation policy.
type Policy string

const (
	PolicyRandom  Policy = "random"
	PolicyClassic Policy = "classic"
)

// pcgStream is a fixed stream selector so that a seed alone determines the
// sequence of pieces.
const pcgStream = 0x9e3779b97f4a7c15

var ErrUnknownPolicy = errors.New("unknown piece generator policy")

// Generator hands out the shapes of successive pieces.
type Generator interface {
	Next() piece.Shape
	// Copy returns an independent generator that will produce exactly the
	// same future shapes as this one, without advancing this one.
	Copy() Generator
	Policy() Policy
}

// NewGenerator creates a seeded generator for the given policy.
func NewGenerator(policy Policy, seed uint64) (Generator, error) {
	switch policy {
	case PolicyRandom:
		return NewRandomGenerator(seed), nil
	case PolicyClassic:
		return NewSevenBag(seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
}

// NewUnseededGenerator creates a generator whose seed is drawn from a
// cryptographically secure source.
func NewUnseededGenerator(policy Policy) (Generator, error) {
	return NewGenerator(policy, RandomSeed())
}

// RandomSeed returns a fresh random seed.
func RandomSeed() uint64 {
	return frand.Uint64n(math.MaxUint64)
}

type seededSource struct {
	src  *rand.PCG
	rand *rand.Rand
}

func newSeededSource(seed uint64) seededSource {
	src := rand.NewPCG(seed, pcgStream)
	return seededSource{src: src, rand: rand.New(src)}
}

func (s seededSource) copy() seededSource {
	src := *s.src
	return seededSource{src: &src, rand: rand.New(&src)}
}

// RandomGenerator picks every shape independently and uniformly.
type RandomGenerator struct {
	seededSource
}

func NewRandomGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{seededSource: newSeededSource(seed)}
}

func (g *RandomGenerator) Next() piece.Shape {
	return piece.AllShapes[g.rand.IntN(piece.NumShapes)]
}

func (g *RandomGenerator) Copy() Generator {
	return &RandomGenerator{seededSource: g.copy()}
}

func (g *RandomGenerator) Policy() Policy {
	return PolicyRandom
}

// SevenBag shuffles all seven shapes and deals them without replacement,
// refilling when empty. Any run of seven consecutive pieces dealt from a
// fresh bag contains every shape exactly once.
type SevenBag struct {
	seededSource
	shapes []piece.Shape
}

func NewSevenBag(seed uint64) *SevenBag {
	return &SevenBag{
		seededSource: newSeededSource(seed),
		shapes:       make([]piece.Shape, 0, piece.NumShapes),
	}
}

func (b *SevenBag) refill() {
	b.shapes = b.shapes[:0]
	b.shapes = append(b.shapes, piece.AllShapes[:]...)
	b.rand.Shuffle(len(b.shapes), func(i, j int) {
		b.shapes[i], b.shapes[j] = b.shapes[j], b.shapes[i]
	})
}

// Next deals the next shape from the bag.
func (b *SevenBag) Next() piece.Shape {
	if len(b.shapes) == 0 {
		b.refill()
	}
	s := b.shapes[0]
	b.shapes = b.shapes[1:]
	return s
}

// Remaining is the number of shapes left before the next reshuffle.
func (b *SevenBag) Remaining() int {
	return len(b.shapes)
}

func (b *SevenBag) Copy() Generator {
	shapes := make([]piece.Shape, len(b.shapes), piece.NumShapes)
	copy(shapes, b.shapes)
	return &SevenBag{seededSource: b.copy(), shapes: shapes}
}

func (b *SevenBag) Policy() Policy {
	return PolicyClassic
}
