package model

import (
	"fmt"
	"sort"
)

// Set holds the predictors loaded at startup, keyed by panel id.
type Set struct {
	models map[string]Predictor
}

// LoadSet loads every artifact in paths. The first failure aborts the whole
// load; a partially loaded set is never returned.
func LoadSet(paths map[string]string) (Set, error) {
	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	models := make(map[string]Predictor, len(paths))
	for _, id := range ids {
		p, err := Load(paths[id])
		if err != nil {
			return Set{}, fmt.Errorf("load %s model: %w", id, err)
		}
		models[id] = p
	}
	return Set{models: models}, nil
}

// NewSet wraps already built predictors.
func NewSet(models map[string]Predictor) Set {
	cp := make(map[string]Predictor, len(models))
	for id, p := range models {
		cp[id] = p
	}
	return Set{models: cp}
}

func (s Set) Get(id string) (Predictor, bool) {
	p, ok := s.models[id]
	return p, ok
}

func (s Set) Len() int {
	return len(s.models)
}
