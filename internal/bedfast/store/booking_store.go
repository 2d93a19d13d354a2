package store

import (
	"context"
	"time"
)

// Booking states. Access status (upcoming/active/expired) is never stored;
// it is derived from the window on every read.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type BookingRecord struct {
	ID            string
	UserID        string
	PropertyID    string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	PIN           string
	State         string
	PaymentStatus string
	Rating        int
	Feedback      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BookingStore interface {
	CreateBooking(ctx context.Context, rec BookingRecord) error
	GetBooking(ctx context.Context, id string) (BookingRecord, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]BookingRecord, error)
	// ListBookingsByProperty returns confirmed bookings for a property.
	ListBookingsByProperty(ctx context.Context, propertyID string) ([]BookingRecord, error)
	UpdateBookingState(ctx context.Context, id, state string, t time.Time) error
	SetFeedback(ctx context.Context, id string, rating int, comment string, t time.Time) error
	// ListConfirmedEndedBy returns confirmed bookings whose check-out is at or
	// before cutoff.
	ListConfirmedEndedBy(ctx context.Context, cutoff time.Time) ([]BookingRecord, error)
}
