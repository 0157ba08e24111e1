package cache

import (
	"context"
	"sync"
	"trip-wizard-service/internal/ports"
)

// In-process PlaceCache used when no database is configured.
type MemoryPlaceCache struct {
	mu     sync.RWMutex
	places map[string]ports.Place
}

func NewMemoryPlaceCache() *MemoryPlaceCache {
	return &MemoryPlaceCache{places: make(map[string]ports.Place)}
}

func (m *MemoryPlaceCache) GetMany(ctx context.Context, ids []string) (map[string]ports.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]ports.Place, len(ids))
	for _, id := range ids {
		if p, ok := m.places[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MemoryPlaceCache) PutMany(ctx context.Context, places map[string]ports.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range places {
		m.places[id] = p
	}
	return nil
}
