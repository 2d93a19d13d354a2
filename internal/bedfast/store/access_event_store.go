package store

import (
	"context"
	"time"
)

// Access event subjects.
const (
	SubjectBooking  = "booking"
	SubjectViewing  = "viewing"
	SubjectGuestPIN = "guest_pin"
	SubjectLock     = "lock"
)

// AccessEventRecord captures a single credential decision for the audit log:
// a PIN screen render or a lock-side verification.
type AccessEventRecord struct {
	Subject      string
	SubjectID    string
	PropertyID   string
	UserID       string
	Offline      bool
	AccessStatus string
	Revealed     bool
	Reason       string
	RequestedAt  *time.Time // optional device-reported timestamp
	DecidedAt    time.Time
}

// AccessEventStore persists access decisions as an append-only audit log.
type AccessEventStore interface {
	RecordEvent(ctx context.Context, rec AccessEventRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
