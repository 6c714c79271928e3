// Package tuner searches for evaluator weights by playing games with
// candidate weight vectors. Every candidate lives on the unit sphere: the
// greedy player's choices only depend on the direction of the weights.
package tuner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/domino14/stacker/ai/turnplayer"
	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/bag"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
)

const (
	AlgorithmES = "es"
	AlgorithmGA = "ga"
)

var ErrUnknownAlgorithm = errors.New("unknown tuning algorithm")

// Fitness scores a weight vector by playing one game per seed.
type Fitness func(ctx context.Context, w equity.Weights, seeds []uint64) (float64, error)

// GamesFitness returns the total rows cleared by a greedy player using the
// candidate weights, over games played with opts. Games for a single
// candidate run sequentially; candidates are evaluated in parallel.
func GamesFitness(opts automatic.EvalOptions) Fitness {
	opts.Threads = 1
	opts.GameLog = nil
	return func(ctx context.Context, w equity.Weights, seeds []uint64) (float64, error) {
		p := turnplayer.NewStaticPlayer(equity.NewLinearCalculator(w))
		res, err := automatic.Evaluate(ctx, p, seeds, opts)
		if err != nil {
			return 0, err
		}
		return floats.Sum(res.Scores()), nil
	}
}

// Options control both algorithms. Fields that only apply to one of them
// are ignored by the other.
type Options struct {
	Population        int
	Generations       int
	GamesPerCandidate int
	Threads           int
	// Seed drives every random choice of the search, including game seeds.
	// 0 picks a random seed.
	Seed uint64

	Sigma float64
	Alpha float64

	OffspringRate  float64
	MutationRate   float64
	MutationRange  float64
	TournamentSize int
}

func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Population:        cfg.GetInt(config.ConfigTunerPopulation),
		Generations:       cfg.GetInt(config.ConfigTunerGenerations),
		GamesPerCandidate: cfg.GetInt(config.ConfigTunerGamesPerCand),
		Threads:           cfg.GetInt(config.ConfigThreads),
		Sigma:             cfg.GetFloat64(config.ConfigTunerSigma),
		Alpha:             cfg.GetFloat64(config.ConfigTunerAlpha),
		OffspringRate:     cfg.GetFloat64(config.ConfigTunerOffspringRate),
		MutationRate:      cfg.GetFloat64(config.ConfigTunerMutationRate),
		MutationRange:     cfg.GetFloat64(config.ConfigTunerMutationRange),
		TournamentSize:    cfg.GetInt(config.ConfigTunerTournamentSize),
	}
	if seed, ok := cfg.Seed(); ok {
		opts.Seed = seed
	}
	return opts
}

// Generation records one step of a search.
type Generation struct {
	Index       int            `yaml:"generation"`
	Best        equity.Weights `yaml:"best"`
	BestFitness float64        `yaml:"best-fitness"`
	MeanFitness float64        `yaml:"mean-fitness"`
}

// Outcome is the result of a search.
type Outcome struct {
	Weights equity.Weights `yaml:"weights"`
	Fitness float64        `yaml:"fitness"`
	History []Generation   `yaml:"history"`
}

// WriteYAML writes the outcome, history included.
func (o *Outcome) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return err
	}
	return enc.Close()
}

// Tuner is a weight search algorithm.
type Tuner interface {
	Run(ctx context.Context, fitness Fitness) (*Outcome, error)
}

// New creates the named algorithm. initial, if not nil, is the starting
// point of the evolution strategy; the genetic algorithm adds it to its
// otherwise random starting population.
func New(algorithm string, opts Options, initial *equity.Weights) (Tuner, error) {
	if opts.Population < 2 {
		return nil, fmt.Errorf("population must be at least 2, got %d", opts.Population)
	}
	if opts.Seed == 0 {
		opts.Seed = bag.RandomSeed()
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xda3e39cb94b95bdb))
	switch algorithm {
	case AlgorithmES:
		return &EvolutionStrategy{opts: opts, rng: rng, initial: initial}, nil
	case AlgorithmGA:
		return &GeneticAlgorithm{opts: opts, rng: rng, initial: initial}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

// normalize scales w to unit length. A zero vector is replaced by a random
// unit vector.
func normalize(w equity.Weights, rng *rand.Rand) equity.Weights {
	n := floats.Norm(w[:], 2)
	if n == 0 {
		return randomIndividual(rng)
	}
	floats.Scale(1/n, w[:])
	return w
}

// randomIndividual draws a direction uniformly from the unit sphere.
func randomIndividual(rng *rand.Rand) equity.Weights {
	var w equity.Weights
	for i := range w {
		w[i] = rng.NormFloat64()
	}
	return normalize(w, rng)
}

// evalPopulation scores every candidate on the same seeds, using up to
// threads goroutines.
func evalPopulation(ctx context.Context, pop []equity.Weights, seeds []uint64,
	fitness Fitness, threads int) ([]float64, error) {

	out := make([]float64, len(pop))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(threads, 1))
	for i, w := range pop {
		eg.Go(func() error {
			f, err := fitness(ctx, w, seeds)
			if err != nil {
				return err
			}
			out[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// summarize builds a generation record from a scored population.
func summarize(idx int, pop []equity.Weights, fit []float64) Generation {
	best := floats.MaxIdx(fit)
	return Generation{
		Index:       idx,
		Best:        pop[best],
		BestFitness: fit[best],
		MeanFitness: floats.Sum(fit) / float64(len(fit)),
	}
}

// bestOf returns the generation with the highest best fitness, the earliest
// on ties.
func bestOf(history []Generation) Generation {
	return lo.MaxBy(history, func(a, b Generation) bool {
		return a.BestFitness > b.BestFitness
	})
}
