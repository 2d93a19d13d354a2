package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
	sqlitestore "github.com/bedfast/access-service/internal/bedfast/store/sqlite"
)

func testBooking(id, user string, checkIn time.Time) store.BookingRecord {
	return store.BookingRecord{
		ID:            id,
		UserID:        user,
		PropertyID:    testProperty,
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(72 * time.Hour),
		Guests:        2,
		PIN:           "4821",
		State:         store.BookingConfirmed,
		PaymentStatus: "paid",
		CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// CreateBooking / GetBooking
// ═══════════════════════════════════════════════════════════════════════════

func TestBookingStore_CreateAndGet_RoundTripsFields(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	checkIn := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	want := testBooking("bk-1", "user-1", checkIn)
	if err := bs.CreateBooking(ctx, want); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	got, err := bs.GetBooking(ctx, "bk-1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if !got.CheckIn.Equal(want.CheckIn) || !got.CheckOut.Equal(want.CheckOut) {
		t.Errorf("window mismatch: got %s..%s", got.CheckIn, got.CheckOut)
	}
	if got.PIN != "4821" || got.State != store.BookingConfirmed || got.Guests != 2 {
		t.Errorf("unexpected booking %+v", got)
	}
	if !got.UpdatedAt.Equal(want.CreatedAt) {
		t.Errorf("expected updated_at to default to created_at, got %s", got.UpdatedAt)
	}
}

func TestBookingStore_GetMissing_ErrNotFound(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))

	_, err := bs.GetBooking(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingStore_InvertedWindow_Rejected(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))

	rec := testBooking("bk-bad", "user-1", time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC))
	rec.CheckOut = rec.CheckIn.Add(-time.Hour)

	if err := bs.CreateBooking(context.Background(), rec); err == nil {
		t.Fatal("expected CHECK constraint to reject check_out before check_in")
	}
}

func TestBookingStore_UnknownProperty_Rejected(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))

	rec := testBooking("bk-fk", "user-1", time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC))
	rec.PropertyID = "prop-missing"

	if err := bs.CreateBooking(context.Background(), rec); err == nil {
		t.Fatal("expected foreign key violation for unknown property")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Listing
// ═══════════════════════════════════════════════════════════════════════════

func TestBookingStore_ListByUser_OrderedByCheckIn(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	base := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	for i, id := range []string{"bk-c", "bk-a", "bk-b"} {
		if err := bs.CreateBooking(ctx, testBooking(id, "user-1", base.Add(time.Duration(2-i)*24*time.Hour))); err != nil {
			t.Fatalf("CreateBooking %s: %v", id, err)
		}
	}
	if err := bs.CreateBooking(ctx, testBooking("bk-other", "user-2", base)); err != nil {
		t.Fatalf("CreateBooking other: %v", err)
	}

	got, err := bs.ListBookingsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListBookingsByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CheckIn.Before(got[i-1].CheckIn) {
			t.Errorf("bookings not ordered by check-in: %s before %s", got[i-1].ID, got[i].ID)
		}
	}
}

func TestBookingStore_ListConfirmedEndedBy(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ended := testBooking("bk-ended", "user-1", cutoff.Add(-72*time.Hour)) // checks out exactly at cutoff
	running := testBooking("bk-running", "user-1", cutoff.Add(-time.Hour))
	cancelled := testBooking("bk-cancelled", "user-1", cutoff.Add(-10*24*time.Hour))
	cancelled.State = store.BookingCancelled

	for _, rec := range []store.BookingRecord{ended, running, cancelled} {
		if err := bs.CreateBooking(ctx, rec); err != nil {
			t.Fatalf("CreateBooking %s: %v", rec.ID, err)
		}
	}

	got, err := bs.ListConfirmedEndedBy(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListConfirmedEndedBy: %v", err)
	}
	if len(got) != 1 || got[0].ID != "bk-ended" {
		t.Errorf("expected only bk-ended, got %+v", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Updates
// ═══════════════════════════════════════════════════════════════════════════

func TestBookingStore_UpdateStateAndFeedback(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	if err := bs.CreateBooking(ctx, testBooking("bk-1", "user-1", time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	at := time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	if err := bs.UpdateBookingState(ctx, "bk-1", store.BookingCompleted, at); err != nil {
		t.Fatalf("UpdateBookingState: %v", err)
	}
	if err := bs.SetFeedback(ctx, "bk-1", 5, "Spotless", at); err != nil {
		t.Fatalf("SetFeedback: %v", err)
	}

	got, err := bs.GetBooking(ctx, "bk-1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.State != store.BookingCompleted || got.Rating != 5 || got.Feedback != "Spotless" {
		t.Errorf("unexpected booking after updates: %+v", got)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("expected updated_at=%s, got %s", at, got.UpdatedAt)
	}
}

func TestBookingStore_UpdateMissing_ErrNotFound(t *testing.T) {
	conn := openTestDB(t)
	bs := sqlitestore.NewBookingStore(conn, newTestWriter(t, conn))

	err := bs.UpdateBookingState(context.Background(), "nope", store.BookingCancelled, time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
