package equity

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/stacker/config"
)

const NumFeatures = 4

// Positions of each feature in a Weights vector.
const (
	HeightIdx = iota
	LinesIdx
	HolesIdx
	BumpinessIdx
)

// Weights are the coefficients of aggregate height, complete lines, holes
// and bumpiness, in that order.
type Weights [NumFeatures]float64

// DefaultWeights is the commonly published hand-tuned vector.
var DefaultWeights = Weights(config.DefaultWeights)

var ErrBadWeights = errors.New("bad weights")

// WeightsFromConfig reads the weight vector from weights-file if set, or
// the weights key otherwise.
func WeightsFromConfig(cfg *config.Config) (Weights, error) {
	if path := cfg.GetString(config.ConfigWeightsFile); path != "" {
		return LoadWeights(path)
	}
	s, err := cfg.Weights()
	if err != nil {
		return Weights{}, err
	}
	return WeightsFromSlice(s)
}

// WeightsFromSlice copies a four-element slice into a Weights vector.
func WeightsFromSlice(s []float64) (Weights, error) {
	var w Weights
	if len(s) != NumFeatures {
		return w, fmt.Errorf("%w: need %d values, got %d", ErrBadWeights, NumFeatures, len(s))
	}
	copy(w[:], s)
	return w, nil
}

func (w Weights) Slice() []float64 {
	return append([]float64(nil), w[:]...)
}

func (w Weights) String() string {
	return fmt.Sprintf("[height %.6f, lines %.6f, holes %.6f, bumpiness %.6f]",
		w[HeightIdx], w[LinesIdx], w[HolesIdx], w[BumpinessIdx])
}

// weightsFile is the YAML layout of a saved weight vector.
type weightsFile struct {
	Height    float64 `yaml:"height"`
	Lines     float64 `yaml:"lines"`
	Holes     float64 `yaml:"holes"`
	Bumpiness float64 `yaml:"bumpiness"`
	// Fitness is informational; tuners record the score that earned these
	// weights.
	Fitness *float64 `yaml:"fitness,omitempty"`
}

// MarshalYAML writes the weights as a named mapping.
func (w Weights) MarshalYAML() (any, error) {
	return weightsFile{
		Height: w[HeightIdx], Lines: w[LinesIdx], Holes: w[HolesIdx], Bumpiness: w[BumpinessIdx],
	}, nil
}

func (w *Weights) UnmarshalYAML(node *yaml.Node) error {
	var f weightsFile
	if err := node.Decode(&f); err != nil {
		return err
	}
	*w = Weights{f.Height, f.Lines, f.Holes, f.Bumpiness}
	return nil
}

// LoadWeights reads a weight vector from a YAML file.
func LoadWeights(path string) (Weights, error) {
	var w Weights
	bts, err := os.ReadFile(path)
	if err != nil {
		return w, err
	}
	if err := yaml.Unmarshal(bts, &w); err != nil {
		return w, fmt.Errorf("%w: %w", ErrBadWeights, err)
	}
	return w, nil
}

// SaveWeights writes w to path, along with the fitness that produced it.
func SaveWeights(path string, w Weights, fitness float64) error {
	f := weightsFile{
		Height: w[HeightIdx], Lines: w[LinesIdx], Holes: w[HolesIdx], Bumpiness: w[BumpinessIdx],
		Fitness: &fitness,
	}
	bts, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bts, 0o644)
}
