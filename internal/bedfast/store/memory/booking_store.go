package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

type BookingStore struct {
	mu   sync.RWMutex
	data map[string]store.BookingRecord
}

func NewBookingStore() *BookingStore {
	return &BookingStore{data: make(map[string]store.BookingRecord)}
}

func (s *BookingStore) CreateBooking(_ context.Context, rec store.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	s.data[rec.ID] = rec
	return nil
}

func (s *BookingStore) GetBooking(_ context.Context, id string) (store.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[id]
	if !ok {
		return store.BookingRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *BookingStore) ListBookingsByUser(_ context.Context, userID string) ([]store.BookingRecord, error) {
	return s.filter(func(r store.BookingRecord) bool { return r.UserID == userID }), nil
}

func (s *BookingStore) ListBookingsByProperty(_ context.Context, propertyID string) ([]store.BookingRecord, error) {
	return s.filter(func(r store.BookingRecord) bool {
		return r.PropertyID == propertyID && r.State == store.BookingConfirmed
	}), nil
}

func (s *BookingStore) ListConfirmedEndedBy(_ context.Context, cutoff time.Time) ([]store.BookingRecord, error) {
	return s.filter(func(r store.BookingRecord) bool {
		return r.State == store.BookingConfirmed && !r.CheckOut.After(cutoff)
	}), nil
}

func (s *BookingStore) UpdateBookingState(_ context.Context, id, state string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok {
		return store.ErrNotFound
	}
	rec.State = state
	rec.UpdatedAt = t
	s.data[id] = rec
	return nil
}

func (s *BookingStore) SetFeedback(_ context.Context, id string, rating int, comment string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok {
		return store.ErrNotFound
	}
	rec.Rating = rating
	rec.Feedback = comment
	rec.UpdatedAt = t
	s.data[id] = rec
	return nil
}

// filter returns matching records ordered by check-in.
func (s *BookingStore) filter(keep func(store.BookingRecord) bool) []store.BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.BookingRecord
	for _, r := range s.data {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}
