package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

type ViewingStore struct {
	mu   sync.RWMutex
	data map[string]store.ViewingRecord
}

func NewViewingStore() *ViewingStore {
	return &ViewingStore{data: make(map[string]store.ViewingRecord)}
}

func (s *ViewingStore) CreateViewing(_ context.Context, rec store.ViewingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.data[rec.ID] = rec
	return nil
}

func (s *ViewingStore) GetViewing(_ context.Context, id string) (store.ViewingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return store.ViewingRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *ViewingStore) ListViewingsByUser(_ context.Context, userID string) ([]store.ViewingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.ViewingRecord
	for _, r := range s.data {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.Before(out[j].Slot) })
	return out, nil
}
