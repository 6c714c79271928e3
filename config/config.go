package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigRows             = "rows"
	ConfigCols             = "cols"
	ConfigGenerator        = "generator"
	ConfigSeed             = "seed"
	ConfigWeights          = "weights"
	ConfigWeightsFile      = "weights-file"
	ConfigPlayer           = "player"
	ConfigBeamWidth        = "beam-width"
	ConfigLookaheadThreads = "lookahead-threads"
	ConfigMaxMoves         = "max-moves"
	ConfigEvalCache        = "eval-cache"
	ConfigGameOverPenalty  = "game-over-penalty"
	ConfigNumGames         = "num-games"
	ConfigThreads          = "threads"
	ConfigDebug            = "debug"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
	ConfigGameLog          = "game-log"
	ConfigSeedsFile        = "seeds-file"
	ConfigConfigFile       = "config-file"

	ConfigTunerAlgorithm      = "tuner.algorithm"
	ConfigTunerPopulation     = "tuner.population"
	ConfigTunerGenerations    = "tuner.generations"
	ConfigTunerGamesPerCand   = "tuner.games-per-candidate"
	ConfigTunerMaxMoves       = "tuner.max-moves"
	ConfigTunerSigma          = "tuner.sigma"
	ConfigTunerAlpha          = "tuner.alpha"
	ConfigTunerOffspringRate  = "tuner.offspring-rate"
	ConfigTunerMutationRate   = "tuner.mutation-rate"
	ConfigTunerMutationRange  = "tuner.mutation-range"
	ConfigTunerTournamentSize = "tuner.tournament-size"
	ConfigTunerOutput         = "tuner.output"
	ConfigTunerFromWeights    = "tuner.from-weights"
)

// DefaultWeights are the commonly published hand-tuned weights for the four
// features: aggregate height, complete lines, holes, bumpiness.
var DefaultWeights = []float64{-0.510066, 0.760666, -0.35663, -0.184483}

var ErrBadWeights = errors.New("weights must have exactly four values")

// Config is a thin wrapper around viper. Every setting is reachable through
// the embedded Viper's getters.
type Config struct {
	viper.Viper
	args []string
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigRows, 20)
	c.SetDefault(ConfigCols, 10)
	c.SetDefault(ConfigGenerator, "classic")
	c.SetDefault(ConfigWeights, DefaultWeights)
	c.SetDefault(ConfigPlayer, "static")
	c.SetDefault(ConfigBeamWidth, 10)
	c.SetDefault(ConfigLookaheadThreads, 1)
	c.SetDefault(ConfigMaxMoves, 0)
	c.SetDefault(ConfigEvalCache, 0.0)
	c.SetDefault(ConfigGameOverPenalty, 0.0)
	c.SetDefault(ConfigNumGames, 10)
	c.SetDefault(ConfigThreads, 4)
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigGameLog, "/tmp/stacker_games.csv")

	c.SetDefault(ConfigTunerAlgorithm, "es")
	c.SetDefault(ConfigTunerPopulation, 50)
	c.SetDefault(ConfigTunerGenerations, 2)
	c.SetDefault(ConfigTunerGamesPerCand, 10)
	c.SetDefault(ConfigTunerMaxMoves, 50)
	c.SetDefault(ConfigTunerSigma, 0.1)
	c.SetDefault(ConfigTunerAlpha, 0.01)
	c.SetDefault(ConfigTunerOffspringRate, 0.3)
	c.SetDefault(ConfigTunerMutationRate, 0.05)
	c.SetDefault(ConfigTunerMutationRange, 0.2)
	c.SetDefault(ConfigTunerTournamentSize, 5)
	c.SetDefault(ConfigTunerOutput, "best_weights.yaml")
	c.SetDefault(ConfigTunerFromWeights, false)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("stacker", pflag.ContinueOnError)
	fs.Int(ConfigRows, 20, "number of board rows")
	fs.Int(ConfigCols, 10, "number of board columns")
	fs.String(ConfigGenerator, "classic", "piece generator: random or classic (7-bag)")
	fs.Uint64(ConfigSeed, 0, "random seed; omit for a random seed")
	fs.Float64Slice(ConfigWeights, DefaultWeights, "height,lines,holes,bumpiness weights")
	fs.String(ConfigWeightsFile, "", "YAML file with a weights vector; overrides --weights")
	fs.String(ConfigPlayer, "static", "player: static (one-ply) or lookahead (two-ply)")
	fs.Int(ConfigBeamWidth, 10, "first-ply beam width of the lookahead player; 0 means no limit")
	fs.Int(ConfigLookaheadThreads, 1, "goroutines used by the lookahead player")
	fs.Int(ConfigMaxMoves, 0, "stop a game after this many moves; 0 means no limit")
	fs.Float64(ConfigEvalCache, 0, "fraction of total memory for the evaluation cache; 0 disables it")
	fs.Float64(ConfigGameOverPenalty, 0, "added to the evaluation of positions that end the game")
	fs.Int(ConfigNumGames, 10, "number of games to play")
	fs.Int(ConfigThreads, 4, "number of games played concurrently")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this path")
	fs.String(ConfigMemProfile, "", "write a heap profile to this path on exit")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigGameLog, "/tmp/stacker_games.csv", "CSV file receiving one line per finished game")
	fs.String(ConfigSeedsFile, "", "file of seeds, one per line; overrides --num-games")

	fs.String(ConfigTunerAlgorithm, "es", "tuner algorithm: es or ga")
	fs.Int(ConfigTunerPopulation, 50, "tuner population size")
	fs.Int(ConfigTunerGenerations, 2, "tuner generations")
	fs.Int(ConfigTunerGamesPerCand, 10, "games played per candidate")
	fs.Int(ConfigTunerMaxMoves, 50, "move cap of every tuning game")
	fs.String(ConfigTunerOutput, "best_weights.yaml", "where the tuned weights are written")
	fs.Bool(ConfigTunerFromWeights, false, "start the search from the configured weights")
	return fs
}

// Load reads settings, in increasing order of precedence, from defaults, an
// optional config file, STACKER_* environment variables, and args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.setDefaults()

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	c.SetEnvPrefix("stacker")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()

	if cfgFile := c.GetString(ConfigConfigFile); cfgFile != "" {
		c.SetConfigFile(cfgFile)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	_, err := c.Weights()
	return err
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// DefaultConfig returns a config holding only the defaults. It is meant for
// tests.
func DefaultConfig() Config {
	c := Config{Viper: *viper.New()}
	c.setDefaults()
	return c
}

// Seed returns the configured seed, and false if none was set.
func (c *Config) Seed() (uint64, bool) {
	if !c.IsSet(ConfigSeed) {
		return 0, false
	}
	return c.GetUint64(ConfigSeed), true
}

// Weights returns the configured weight vector.
func (c *Config) Weights() ([]float64, error) {
	w, err := toFloat64Slice(c.Get(ConfigWeights))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadWeights, err)
	}
	if len(w) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrBadWeights, len(w))
	}
	return w, nil
}

// SanitizedSettings returns the settings suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

// toFloat64Slice accepts the shapes a list of numbers takes depending on
// where it came from: a Go slice (defaults), a YAML sequence, or a string
// ("[1,2]" from a bound flag, "1,2" from the environment).
func toFloat64Slice(v any) ([]float64, error) {
	switch vv := v.(type) {
	case []float64:
		return vv, nil
	case []any:
		out := make([]float64, len(vv))
		for i, e := range vv {
			f, err := cast.ToFloat64E(e)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case string:
		trimmed := strings.Trim(strings.TrimSpace(vv), "[]")
		if trimmed == "" {
			return nil, nil
		}
		fields := strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ',' || r == ' '
		})
		out := make([]float64, len(fields))
		for i, f := range fields {
			val, err := cast.ToFloat64E(f)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot read %T as a list of numbers", v)
}
