package tuner

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/equity"
)

// GeneticAlgorithm evolves a population of unit vectors. Each generation
// the weakest fraction is replaced by children of tournament winners.
type GeneticAlgorithm struct {
	opts    Options
	rng     *rand.Rand
	initial *equity.Weights
}

// tournament samples TournamentSize distinct individuals and returns the
// indices of the two fittest.
func (ga *GeneticAlgorithm) tournament(fit []float64) (int, int) {
	k := min(max(ga.opts.TournamentSize, 2), len(fit))
	idx := ga.rng.Perm(len(fit))[:k]
	sort.SliceStable(idx, func(i, j int) bool {
		return fit[idx[i]] > fit[idx[j]]
	})
	return idx[0], idx[1]
}

// crossover is the fitness-weighted average of two parents.
func (ga *GeneticAlgorithm) crossover(p1, p2 equity.Weights, f1, f2 float64) equity.Weights {
	var child equity.Weights
	for i := range child {
		child[i] = p1[i]*f1 + p2[i]*f2
	}
	return normalize(child, ga.rng)
}

// mutate, with probability MutationRate, nudges one random component by a
// uniform amount in [-MutationRange, MutationRange].
func (ga *GeneticAlgorithm) mutate(w equity.Weights) equity.Weights {
	if ga.rng.Float64() >= ga.opts.MutationRate {
		return w
	}
	i := ga.rng.IntN(equity.NumFeatures)
	w[i] += (2*ga.rng.Float64() - 1) * ga.opts.MutationRange
	return normalize(w, ga.rng)
}

func (ga *GeneticAlgorithm) Run(ctx context.Context, fitness Fitness) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)
	n := ga.opts.Population
	population := make([]equity.Weights, n)
	for i := range population {
		population[i] = randomIndividual(ga.rng)
	}
	if ga.initial != nil {
		population[0] = normalize(*ga.initial, ga.rng)
	}
	numOffspring := min(int(ga.opts.OffspringRate*float64(n)), n)

	history := make([]Generation, 0, ga.opts.Generations)
	for gen := 0; gen < ga.opts.Generations; gen++ {
		seeds := automatic.DeriveSeeds(ga.rng.Uint64(), ga.opts.GamesPerCandidate)
		fit, err := evalPopulation(ctx, population, seeds, fitness, ga.opts.Threads)
		if err != nil {
			return nil, err
		}
		g := summarize(gen, population, fit)
		history = append(history, g)
		logger.Info().Int("generation", gen).Float64("best-fitness", g.BestFitness).
			Float64("mean-fitness", g.MeanFitness).Str("best", g.Best.String()).
			Msg("ga-generation")

		offspring := make([]equity.Weights, numOffspring)
		for i := range offspring {
			a, b := ga.tournament(fit)
			offspring[i] = ga.mutate(ga.crossover(population[a], population[b], fit[a], fit[b]))
		}

		// Weakest first, then drop them in favor of the offspring.
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return fit[order[i]] < fit[order[j]]
		})
		next := make([]equity.Weights, 0, n)
		for _, i := range order[numOffspring:] {
			next = append(next, population[i])
		}
		population = append(next, offspring...)
	}

	if len(history) == 0 {
		return &Outcome{Weights: population[0]}, nil
	}
	best := bestOf(history)
	return &Outcome{Weights: best.Best, Fitness: best.BestFitness, History: history}, nil
}
