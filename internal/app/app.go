// Package app holds the state shared by every request for the lifetime of
// the process: the panel catalogue and the models bound to it.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Skufu/medpredict/internal/diagnosis"
	"github.com/Skufu/medpredict/internal/model"
)

var ErrUnknownPanel = errors.New("unknown panel")

// App is immutable after New returns.
type App struct {
	models model.Set
	logger *zap.Logger
}

// New loads the model for every panel. Any failure is logged and returned;
// the caller must not serve requests without a complete App.
func New(paths map[string]string, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	panels := diagnosis.Panels()
	want := make(map[string]string, len(panels))
	for _, p := range panels {
		path, ok := paths[p.ID]
		if !ok || path == "" {
			err := fmt.Errorf("no model path configured for %s", p.ID)
			logger.Error("Error loading models", zap.Error(err))
			return nil, err
		}
		want[p.ID] = path
	}

	set, err := model.LoadSet(want)
	if err != nil {
		logger.Error("Error loading models", zap.Error(err))
		return nil, err
	}

	for _, p := range panels {
		m, _ := set.Get(p.ID)
		if m.Features() != len(p.Fields) {
			err := fmt.Errorf("%s model expects %d features, panel has %d", p.ID, m.Features(), len(p.Fields))
			logger.Error("Error loading models", zap.Error(err))
			return nil, err
		}
		logger.Debug("model loaded", zap.String("panel", p.ID), zap.String("path", want[p.ID]))
	}

	return &App{models: set, logger: logger}, nil
}

// NewWithModels builds an App around predictors that are already in memory.
func NewWithModels(models map[string]diagnosis.Model, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	wrapped := make(map[string]model.Predictor, len(models))
	for _, p := range diagnosis.Panels() {
		m, ok := models[p.ID]
		if !ok || m == nil {
			return nil, fmt.Errorf("no model for %s", p.ID)
		}
		wrapped[p.ID] = fixedWidth{Model: m, width: len(p.Fields)}
	}
	return &App{models: model.NewSet(wrapped), logger: logger}, nil
}

type fixedWidth struct {
	diagnosis.Model
	width int
}

func (f fixedWidth) Features() int { return f.width }

// Panels returns a copy of the catalogue.
func (a *App) Panels() []diagnosis.Panel {
	return diagnosis.Panels()
}

func (a *App) Panel(id string) (diagnosis.Panel, bool) {
	return diagnosis.Lookup(id)
}

// Predict runs the pipeline for one panel. The error is only for unknown
// panels; prediction failures are carried by the Diagnosis.
func (a *App) Predict(panelID string, raw []string) (diagnosis.Diagnosis, error) {
	panel, ok := a.Panel(panelID)
	if !ok {
		return diagnosis.Diagnosis{}, fmt.Errorf("%w: %q", ErrUnknownPanel, panelID)
	}

	m, _ := a.models.Get(panelID)
	d := diagnosis.Predict(panel, raw, m)
	if !d.OK() {
		a.logger.Warn(InlineError(panel, d.Err), zap.String("panel", panelID))
	}
	return d, nil
}

// InlineError is the error line shown above the result for a failed
// prediction, e.g. "Error predicting diabetes: ...".
func InlineError(panel diagnosis.Panel, err error) string {
	return fmt.Sprintf("Error predicting %s: %v", panel.ErrorContext, err)
}

// Outcome classifies a diagnosis for logs and the audit trail.
func Outcome(d diagnosis.Diagnosis) string {
	switch {
	case !d.OK():
		return "error"
	case d.Positive:
		return "positive"
	default:
		return "negative"
	}
}
