package forecast

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Loader produces a complete set of trained models.
type Loader interface {
	Load(ctx context.Context) (map[string]Model, error)
}

// ModelStore publishes an immutable key -> model map. Readers never lock;
// Reload replaces the whole map.
type ModelStore struct {
	loader Loader
	models atomic.Pointer[map[string]Model]
}

// NewModelStore returns an empty store. A nil loader is allowed and makes
// Reload a no-op.
func NewModelStore(loader Loader) *ModelStore {
	s := &ModelStore{loader: loader}
	empty := map[string]Model{}
	s.models.Store(&empty)
	return s
}

// Get looks up a model. Absence is not an error.
func (s *ModelStore) Get(key string) (Model, bool) {
	m, ok := (*s.models.Load())[key]
	return m, ok
}

func (s *ModelStore) Len() int {
	return len(*s.models.Load())
}

// Keys returns the published model keys in no particular order.
func (s *ModelStore) Keys() []string {
	current := *s.models.Load()
	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	return keys
}

// Publish swaps in a copy of models.
func (s *ModelStore) Publish(models map[string]Model) {
	next := make(map[string]Model, len(models))
	for k, m := range models {
		next[k] = m
	}
	s.models.Store(&next)
}

// Reload runs the loader and publishes its result. On error the current map
// stays in place.
func (s *ModelStore) Reload(ctx context.Context) (int, error) {
	if s.loader == nil {
		return s.Len(), nil
	}

	models, err := s.loader.Load(ctx)
	if err != nil {
		return s.Len(), err
	}

	s.Publish(models)
	log.Info().Int("models", len(models)).Msg("forecast models published")

	return len(models), nil
}
