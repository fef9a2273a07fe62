package storage

import (
	"context"
	"sort"
	"sync"

	"rental-listings-importer/models"
)

// MemoryStore keeps listings in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[int64]models.ListingRecord
	upserts  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listings: make(map[int64]models.ListingRecord)}
}

func (m *MemoryStore) Upsert(ctx context.Context, listings []models.ListingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range listings {
		if existing, ok := m.listings[l.ID]; ok {
			l.CreatedAt = existing.CreatedAt
		}
		m.listings[l.ID] = l
	}
	m.upserts++
	return nil
}

// Get returns the listing stored under id.
func (m *MemoryStore) Get(id int64) (models.ListingRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.listings[id]
	return l, ok
}

// Upserts returns how many Upsert calls have succeeded.
func (m *MemoryStore) Upserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

func (m *MemoryStore) FetchAll(ctx context.Context) ([]*models.ListingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.ListingRecord, 0, len(m.listings))
	for _, l := range m.listings {
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listings), nil
}

func (m *MemoryStore) Close() error { return nil }
