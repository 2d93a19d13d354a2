package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/store"
)

// Clock returns the current instant. Services call it once per operation.
type Clock func() time.Time

// Stores bundles the persistence ports the services depend on.
type Stores struct {
	Properties store.PropertyStore
	Bookings   store.BookingStore
	Viewings   store.ViewingStore
	GuestPINs  store.GuestPINStore
	Events     store.AccessEventStore
	Syncs      store.SyncStore
}

// Options are shared by every service.
type Options struct {
	// Policy drives every window evaluation.
	Policy access.Policy

	// PaymentDelay simulates the payment round-trip on booking creation.
	PaymentDelay time.Duration

	// PINHashCost is the bcrypt cost for guest PINs. Zero means
	// bcrypt.DefaultCost.
	PINHashCost int

	// Clock defaults to time.Now in UTC.
	Clock Clock
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = func() time.Time { return time.Now().UTC() }
	}
	if o.PINHashCost == 0 {
		o.PINHashCost = bcrypt.DefaultCost
	}
	return o
}
