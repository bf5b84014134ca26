package predictor

import (
	"aqipredict/internal/features"
	"aqipredict/internal/models"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KindLinear is the only artifact kind this service can evaluate locally
const KindLinear = "linear"

// Artifact is the exported form of a trained linear regression.
// JSON exports decode too since yaml.v3 reads JSON documents.
type Artifact struct {
	Kind         string    `yaml:"kind"`
	Version      string    `yaml:"version"`
	Features     []string  `yaml:"features"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
}

// LinearModel evaluates intercept + coefficients·features. Immutable after load.
type LinearModel struct {
	version      string
	intercept    float64
	coefficients []float64
}

// LoadFile reads and decodes a model artifact
func LoadFile(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Source: path, Err: err}
	}

	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, &ModelLoadError{Source: path, Err: fmt.Errorf("failed to parse artifact: %w", err)}
	}

	m, err := NewLinearModel(a)
	if err != nil {
		return nil, &ModelLoadError{Source: path, Err: err}
	}
	return m, nil
}

// NewLinearModel checks that the artifact was trained on the expected inputs
func NewLinearModel(a Artifact) (*LinearModel, error) {
	if a.Kind != KindLinear {
		return nil, fmt.Errorf("artifact kind %q has no predict capability", a.Kind)
	}

	if len(a.Coefficients) != features.Size {
		return nil, fmt.Errorf("artifact has %d coefficients, want %d", len(a.Coefficients), features.Size)
	}

	// Feature names are optional, but when present must be in training order
	if len(a.Features) > 0 {
		if len(a.Features) != features.Size {
			return nil, fmt.Errorf("artifact lists %d features, want %d", len(a.Features), features.Size)
		}
		for i, name := range a.Features {
			if name != features.Names[i] {
				return nil, fmt.Errorf("artifact feature %d is %q, want %q", i, name, features.Names[i])
			}
		}
	}

	coef := make([]float64, len(a.Coefficients))
	copy(coef, a.Coefficients)

	return &LinearModel{
		version:      a.Version,
		intercept:    a.Intercept,
		coefficients: coef,
	}, nil
}

// Predict evaluates a single-row batch and returns its only output
func (m *LinearModel) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	out, err := m.predictBatch([][]float64{fv})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (m *LinearModel) predictBatch(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty batch")
	}

	out := make([]float64, len(rows))
	for r, row := range rows {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", r, len(m.coefficients), len(row))
		}
		y := m.intercept
		for i, x := range row {
			y += m.coefficients[i] * x
		}
		out[r] = y
	}
	return out, nil
}

func (m *LinearModel) Name() string {
	return "file"
}

// Version returns the artifact version, if the export recorded one
func (m *LinearModel) Version() string {
	return m.version
}
