package store

import (
	"context"
	"time"
)

// GuestPINRecord is a temporary PIN a booking owner hands to someone else.
// Only the bcrypt hash of the PIN is kept.
type GuestPINRecord struct {
	ID         string
	BookingID  string
	PropertyID string
	GuestName  string
	GuestPhone string
	PINHash    []byte
	ValidFrom  time.Time
	ValidUntil time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

type GuestPINStore interface {
	CreateGuestPIN(ctx context.Context, rec GuestPINRecord) error
	ListGuestPINsByBooking(ctx context.Context, bookingID string) ([]GuestPINRecord, error)
	ListGuestPINsByProperty(ctx context.Context, propertyID string) ([]GuestPINRecord, error)
	RevokeGuestPIN(ctx context.Context, bookingID, id string, t time.Time) error
}
