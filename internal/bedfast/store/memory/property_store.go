package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

type PropertyStore struct {
	mu    sync.RWMutex
	items map[string]store.PropertyRecord
}

func NewPropertyStore(props []store.PropertyRecord) *PropertyStore {
	m := make(map[string]store.PropertyRecord, len(props))
	for _, p := range props {
		m[p.ID] = p
	}
	return &PropertyStore{items: m}
}

func (s *PropertyStore) ListProperties(_ context.Context) ([]store.PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.PropertyRecord, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *PropertyStore) GetProperty(_ context.Context, id string) (store.PropertyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return store.PropertyRecord{}, store.ErrNotFound
	}
	return p, nil
}
