// tune searches for evaluator weights with an evolution strategy or a
// genetic algorithm, and writes the best vector found to a YAML file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/config"
	"github.com/domino14/stacker/equity"
	"github.com/domino14/stacker/tuner"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	var initial *equity.Weights
	if cfg.GetBool(config.ConfigTunerFromWeights) {
		w, err := equity.WeightsFromConfig(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("bad-initial-weights")
		}
		initial = &w
	}

	algorithm := cfg.GetString(config.ConfigTunerAlgorithm)
	t, err := tuner.New(algorithm, tuner.OptionsFromConfig(cfg), initial)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-tuner")
	}

	evalOpts := automatic.EvalOptionsFromConfig(cfg)
	evalOpts.MaxMoves = cfg.GetInt(config.ConfigTunerMaxMoves)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	outcome, err := t.Run(ctx, tuner.GamesFitness(evalOpts))
	if err != nil {
		log.Fatal().Err(err).Msg("tuning-failed")
	}
	log.Info().Str("algorithm", algorithm).Stringer("weights", outcome.Weights).
		Float64("fitness", outcome.Fitness).Dur("elapsed", time.Since(start)).
		Msg("tuning-done")

	path := cfg.GetString(config.ConfigTunerOutput)
	if err := equity.SaveWeights(path, outcome.Weights, outcome.Fitness); err != nil {
		log.Fatal().Err(err).Msg("could-not-save-weights")
	}
	log.Info().Str("path", path).Msg("saved-weights")

	if err := outcome.WriteYAML(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("could-not-write-history")
	}
}
