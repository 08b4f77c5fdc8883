package model

import (
	"errors"
	"fmt"
)

// Scaler standardizes inputs the way the model was fitted: (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

// Linear covers logistic regression and linear SVM exports. A row whose
// decision value is strictly positive gets the second class label.
type Linear struct {
	coef      []float64
	intercept float64
	scaler    *Scaler
	classes   [2]float64
}

func newLinear(a Artifact) (*Linear, error) {
	if len(a.Coef) != a.NFeatures {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrFeatureCount, len(a.Coef), a.NFeatures)
	}

	m := &Linear{
		coef:      append([]float64(nil), a.Coef...),
		intercept: a.Intercept,
		classes:   [2]float64{0, 1},
	}

	if a.Scaler != nil {
		if len(a.Scaler.Mean) != a.NFeatures || len(a.Scaler.Scale) != a.NFeatures {
			return nil, fmt.Errorf("%w: scaler size", ErrFeatureCount)
		}
		for _, s := range a.Scaler.Scale {
			if s == 0 {
				return nil, errors.New("scaler has zero scale")
			}
		}
		m.scaler = &Scaler{
			Mean:  append([]float64(nil), a.Scaler.Mean...),
			Scale: append([]float64(nil), a.Scaler.Scale...),
		}
	}

	switch len(a.Classes) {
	case 0:
	case 2:
		m.classes = [2]float64{a.Classes[0], a.Classes[1]}
	default:
		return nil, fmt.Errorf("linear model needs 2 classes, got %d", len(a.Classes))
	}
	return m, nil
}

func (m *Linear) Features() int {
	return len(m.coef)
}

// decision returns the signed distance of row to the separating hyperplane.
// The caller checks the row width.
func (m *Linear) decision(row []float64) float64 {
	sum := m.intercept
	for i, x := range row {
		if m.scaler != nil {
			x = (x - m.scaler.Mean[i]) / m.scaler.Scale[i]
		}
		sum += m.coef[i] * x
	}
	return sum
}

func (m *Linear) Predict(rows [][]float64) ([]float64, error) {
	if err := checkRows(rows, len(m.coef)); err != nil {
		return nil, err
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		if m.decision(row) > 0 {
			out[i] = m.classes[1]
		} else {
			out[i] = m.classes[0]
		}
	}
	return out, nil
}
