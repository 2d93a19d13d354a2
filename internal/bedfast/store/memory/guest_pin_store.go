package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

type GuestPINStore struct {
	mu   sync.RWMutex
	data map[string]store.GuestPINRecord
}

func NewGuestPINStore() *GuestPINStore {
	return &GuestPINStore{data: make(map[string]store.GuestPINRecord)}
}

func (s *GuestPINStore) CreateGuestPIN(_ context.Context, rec store.GuestPINRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.data[rec.ID] = rec
	return nil
}

func (s *GuestPINStore) ListGuestPINsByBooking(_ context.Context, bookingID string) ([]store.GuestPINRecord, error) {
	return s.filter(func(r store.GuestPINRecord) bool { return r.BookingID == bookingID }), nil
}

func (s *GuestPINStore) ListGuestPINsByProperty(_ context.Context, propertyID string) ([]store.GuestPINRecord, error) {
	return s.filter(func(r store.GuestPINRecord) bool { return r.PropertyID == propertyID }), nil
}

func (s *GuestPINStore) RevokeGuestPIN(_ context.Context, bookingID, id string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok || rec.BookingID != bookingID {
		return store.ErrNotFound
	}
	if rec.RevokedAt == nil {
		rec.RevokedAt = &t
		s.data[id] = rec
	}
	return nil
}

func (s *GuestPINStore) filter(keep func(store.GuestPINRecord) bool) []store.GuestPINRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.GuestPINRecord
	for _, r := range s.data {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
