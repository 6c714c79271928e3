// autoplay plays a batch of games with the configured player and prints a
// summary of the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/stacker/automatic"
	"github.com/domino14/stacker/config"
)

const histogramBins = 15

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

	seeds, err := seedsFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-load-seeds")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithContext(ctx)

	logfile := cfg.GetString(config.ConfigGameLog)
	seedsPath := logfile + ".seeds"
	if err := automatic.SaveSeeds(seeds, seedsPath); err != nil {
		log.Fatal().Err(err).Msg("could-not-save-seeds")
	}
	log.Info().Str("path", seedsPath).Int("games", len(seeds)).
		Msg("saved seeds; replay them with --seeds-file")

	start := time.Now()
	res, err := automatic.PlayGames(ctx, cfg, seeds, logfile)
	if err != nil {
		log.Fatal().Err(err).Msg("autoplay-failed")
	}
	log.Info().Int("games", len(res.Results)).Dur("elapsed", time.Since(start)).
		Str("log", logfile).Msg("autoplay-done")

	summary, err := automatic.AnalyzeLogFile(logfile)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-analyze-log")
	}
	fmt.Print(summary)

	scores := res.Scores()
	if len(scores) > 1 {
		fmt.Println("\nLines cleared per game:")
		h := histogram.Hist(histogramBins, scores)
		if err := histogram.Fprint(os.Stdout, h, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("could-not-print-histogram")
		}
	}
}

// seedsFromConfig reads seeds from a file if one is configured. Otherwise
// it derives them from --seed, or draws them at random.
func seedsFromConfig(cfg *config.Config) ([]uint64, error) {
	if path := cfg.GetString(config.ConfigSeedsFile); path != "" {
		return automatic.LoadSeeds(path)
	}
	n := cfg.GetInt(config.ConfigNumGames)
	if n <= 0 {
		return nil, fmt.Errorf("num-games must be positive, got %d", n)
	}
	if seed, ok := cfg.Seed(); ok {
		return automatic.DeriveSeeds(seed, n), nil
	}
	return automatic.GenerateSeeds(n), nil
}
