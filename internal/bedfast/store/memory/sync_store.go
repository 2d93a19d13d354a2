package memory

import (
	"context"
	"sync"
	"time"
)

type SyncStore struct {
	mu   sync.RWMutex
	data map[string]time.Time
}

func NewSyncStore() *SyncStore {
	return &SyncStore{data: make(map[string]time.Time)}
}

func (s *SyncStore) NoteSync(_ context.Context, userID, subjectID string, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID+"/"+subjectID] = t
	return nil
}

func (s *SyncStore) LastSync(_ context.Context, userID, subjectID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[userID+"/"+subjectID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}
