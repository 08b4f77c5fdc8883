// Package diagnosis turns raw form input into a binary risk label using a
// pre-trained classifier bound to one disease panel.
package diagnosis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorText is what the result area shows for any failed prediction.
const ErrorText = "Prediction error"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPredict      = errors.New("predictor failed")
	ErrBadOutput    = errors.New("unexpected predictor output")
)

// Model is an opaque pre-trained classifier. Predict receives a batch of rows
// and returns one label per row.
type Model interface {
	Predict(rows [][]float64) ([]float64, error)
}

// Diagnosis is the outcome of one prediction. Err is nil on success.
type Diagnosis struct {
	Message  string
	Positive bool
	Err      error
}

func (d Diagnosis) OK() bool {
	return d.Err == nil
}

// Text returns what the result area should display.
func (d Diagnosis) Text() string {
	if d.Err != nil {
		return ErrorText
	}
	return d.Message
}

// Parse converts every raw entry to a float, in order. The first entry that
// is empty or not a number aborts the whole parse.
func Parse(raw []string, fields int) ([]float64, error) {
	if len(raw) != fields {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidInput, fields, len(raw))
	}

	vector := make([]float64, len(raw))
	for i, s := range raw {
		trimmed := strings.TrimSpace(s)
		if isHexFloat(trimmed) {
			return nil, fmt.Errorf("%w: field %d: could not convert %q to float", ErrInvalidInput, i, s)
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: could not convert %q to float", ErrInvalidInput, i, s)
		}
		vector[i] = v
	}
	return vector, nil
}

// isHexFloat reports Go hex-float syntax such as "0x1p4", which ParseFloat
// accepts but form input must not.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Predict runs the full pipeline for one panel submission. It never panics;
// every failure comes back as a Diagnosis carrying Err.
func Predict(panel Panel, raw []string, model Model) Diagnosis {
	vector, err := Parse(raw, len(panel.Fields))
	if err != nil {
		return Diagnosis{Err: err}
	}

	out, err := invoke(model, vector)
	if err != nil {
		return Diagnosis{Err: err}
	}

	// Strict equality: a probability close to 1 is still a negative finding.
	if out == 1 {
		return Diagnosis{Message: panel.Positive, Positive: true}
	}
	return Diagnosis{Message: panel.Negative}
}

func invoke(model Model, vector []float64) (label float64, err error) {
	if model == nil {
		return 0, fmt.Errorf("%w: no model bound", ErrPredict)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPredict, r)
		}
	}()

	out, err := model.Predict([][]float64{vector})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredict, err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%w: expected 1 value, got %d", ErrBadOutput, len(out))
	}
	return out[0], nil
}
