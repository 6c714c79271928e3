package tuner

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/equity"
)

// EvolutionStrategy perturbs a baseline vector with Gaussian noise, scores
// the perturbations, and moves the baseline along the noise directions
// weighted by how much each beat the population mean.
type EvolutionStrategy struct {
	opts    Options
	rng     *rand.Rand
	initial *equity.Weights
}

func (es *EvolutionStrategy) Run(ctx context.Context, fitness Fitness) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)
	pop := es.opts.Population

	var baseline equity.Weights
	if es.initial != nil {
		baseline = normalize(*es.initial, es.rng)
	} else {
		baseline = randomIndividual(es.rng)
	}

	history := make([]Generation, 0, es.opts.Generations)
	for gen := 0; gen < es.opts.Generations; gen++ {
		noise := make([]equity.Weights, pop)
		for i := range noise {
			for j := range noise[i] {
				noise[i][j] = es.rng.NormFloat64()
			}
		}
		candidates := lo.Map(noise, func(n equity.Weights, _ int) equity.Weights {
			c := baseline
			floats.AddScaled(c[:], es.opts.Sigma, n[:])
			return normalize(c, es.rng)
		})
		seeds := automatic.DeriveSeeds(es.rng.Uint64(), es.opts.GamesPerCandidate)
		rewards, err := evalPopulation(ctx, candidates, seeds, fitness, es.opts.Threads)
		if err != nil {
			return nil, err
		}

		g := summarize(gen, candidates, rewards)
		history = append(history, g)

		var update equity.Weights
		for i := range noise {
			floats.AddScaled(update[:], rewards[i]-g.MeanFitness, noise[i][:])
		}
		floats.AddScaled(baseline[:], es.opts.Alpha/(es.opts.Sigma*float64(pop)), update[:])
		baseline = normalize(baseline, es.rng)

		logger.Info().Int("generation", gen).Float64("best-fitness", g.BestFitness).
			Float64("mean-fitness", g.MeanFitness).Str("baseline", baseline.String()).
			Msg("es-generation")
	}

	// Report the final baseline's own fitness on fresh games.
	seeds := automatic.DeriveSeeds(es.rng.Uint64(), es.opts.GamesPerCandidate)
	f, err := fitness(ctx, baseline, seeds)
	if err != nil {
		return nil, err
	}
	return &Outcome{Weights: baseline, Fitness: f, History: history}, nil
}
