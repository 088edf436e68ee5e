package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/basar-api/internal/domain/repository"
)

// SettingsStore tabla settings en memoria.
type SettingsStore struct {
	mu     sync.RWMutex
	values map[string]string
	reads  int
}

var _ repository.SettingsRepository = (*SettingsStore)(nil)

// NewSettingsStore crea el almacén con valores iniciales (puede ser nil).
func NewSettingsStore(initial map[string]string) *SettingsStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &SettingsStore{values: values}
}

func (s *SettingsStore) GetAll(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *SettingsStore) Upsert(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		if v == "" {
			delete(s.values, k)
			continue
		}
		s.values[k] = v
	}
	return nil
}

// Reads número de llamadas a GetAll (para comprobar la caché).
func (s *SettingsStore) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}
