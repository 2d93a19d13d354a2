package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/store/memory"
	"github.com/bedfast/access-service/internal/notify"
)

const (
	testUser     = "user-1"
	otherUser    = "user-2"
	testProperty = "prop-harbour-loft"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Message
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, msg)
	return nil
}

func (r *recordingNotifier) Messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.got...)
}

type testEnv struct {
	clock    *fakeClock
	stores   service.Stores
	bookings *memory.BookingStore
	events   *memory.AccessEventStore
	sent     *recordingNotifier
	opts     service.Options

	bookingSvc *service.BookingService
	guestSvc   *service.GuestAccessService
	viewingSvc *service.ViewingService
}

// newTestEnv wires every service to fresh in-memory stores and a clock
// pinned at now.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	clk := &fakeClock{t: now}
	bookings := memory.NewBookingStore()
	events := memory.NewAccessEventStore()
	st := service.Stores{
		Properties: memory.NewPropertyStore([]store.PropertyRecord{
			{ID: testProperty, Name: "Harbour Loft", City: "Lisbon", Address: "Rua do Cais 12"},
		}),
		Bookings:  bookings,
		Viewings:  memory.NewViewingStore(),
		GuestPINs: memory.NewGuestPINStore(),
		Events:    events,
		Syncs:     memory.NewSyncStore(),
	}
	opts := service.Options{
		Policy:      access.DefaultPolicy,
		PINHashCost: bcrypt.MinCost,
		Clock:       clk.Now,
	}
	sent := &recordingNotifier{}

	return &testEnv{
		clock:      clk,
		stores:     st,
		bookings:   bookings,
		events:     events,
		sent:       sent,
		opts:       opts,
		bookingSvc: service.NewBookingService(st, sent, opts, nil),
		guestSvc:   service.NewGuestAccessService(st, sent, opts, nil),
		viewingSvc: service.NewViewingService(st, opts, nil),
	}
}

func rfc(t time.Time) string { return t.Format(time.RFC3339) }
