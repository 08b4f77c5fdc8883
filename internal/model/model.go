// Package model loads pre-trained classifier artifacts from disk.
//
// Artifacts are YAML documents (JSON is accepted as well) carrying a kind
// discriminator and the fitted parameters of the classifier.
package model

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	KindLinear       = "linear"
	KindDecisionTree = "decision_tree"
)

var (
	ErrUnsupportedKind = errors.New("unsupported model kind")
	ErrFeatureCount    = errors.New("feature count mismatch")
	ErrNonFinite       = errors.New("input contains NaN or infinity")
)

// Predictor is a loaded classifier. It is safe for concurrent use because
// nothing mutates it after loading.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
	Features() int
}

// Artifact is the on-disk representation shared by every model kind.
type Artifact struct {
	Kind      string     `yaml:"kind"`
	Name      string     `yaml:"name"`
	NFeatures int        `yaml:"n_features"`
	Classes   []float64  `yaml:"classes"`
	Coef      []float64  `yaml:"coef"`
	Intercept float64    `yaml:"intercept"`
	Scaler    *Scaler    `yaml:"scaler"`
	Nodes     []TreeNode `yaml:"nodes"`
}

// Load reads the artifact at path and builds its predictor.
func Load(path string) (Predictor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var a Artifact
	if err := yaml.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}

	p, err := Build(a)
	if err != nil {
		return nil, fmt.Errorf("build model %s: %w", path, err)
	}
	return p, nil
}

// Build validates an artifact and returns the predictor it describes.
func Build(a Artifact) (Predictor, error) {
	if a.NFeatures <= 0 {
		return nil, errors.New("n_features must be positive")
	}

	switch a.Kind {
	case KindLinear:
		return newLinear(a)
	case KindDecisionTree:
		return newDecisionTree(a)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, a.Kind)
	}
}

// checkRows rejects rows of the wrong width or holding NaN/Inf values.
func checkRows(rows [][]float64, want int) error {
	for i, row := range rows {
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d features, model expects %d", ErrFeatureCount, i, len(row), want)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: row %d feature %d", ErrNonFinite, i, j)
			}
		}
	}
	return nil
}
