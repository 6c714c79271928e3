package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigRows), 20)
	is.Equal(cfg.GetInt(ConfigCols), 10)
	is.Equal(cfg.GetString(ConfigGenerator), "classic")
	_, ok := cfg.Seed()
	is.True(!ok)
	w, err := cfg.Weights()
	is.NoErr(err)
	is.Equal(w, DefaultWeights)
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--rows", "22", "--seed", "17", "--generator", "random",
		"--weights=-1,2,-3,-4"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigRows), 22)
	seed, ok := cfg.Seed()
	is.True(ok)
	is.Equal(seed, uint64(17))
	is.Equal(cfg.GetString(ConfigGenerator), "random")
	w, err := cfg.Weights()
	is.NoErr(err)
	is.Equal(w, []float64{-1, 2, -3, -4})
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "stacker.yaml")
	err := os.WriteFile(path, []byte("cols: 12\nplayer: lookahead\ntuner:\n  population: 8\n"), 0o600)
	is.NoErr(err)

	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-file", path}))
	is.Equal(cfg.GetInt(ConfigCols), 12)
	is.Equal(cfg.GetString(ConfigPlayer), "lookahead")
	is.Equal(cfg.GetInt(ConfigTunerPopulation), 8)
	is.Equal(cfg.GetInt(ConfigTunerGenerations), 2)
}

func TestBadWeights(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--weights=1,2,3"})
	is.True(errors.Is(err, ErrBadWeights))
}

func TestPositionalArgs(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--debug", "autoplay", "5"}))
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.Args(), []string{"autoplay", "5"})
	is.Equal(cfg.GetString(ConfigGameLog), "/tmp/stacker_games.csv")
}
