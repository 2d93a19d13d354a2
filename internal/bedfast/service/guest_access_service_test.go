package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/types"
	"github.com/bedfast/access-service/internal/notify"
)

func TestIssue_ClampsToBookingWindowAndTexts(t *testing.T) {
	env := newTestEnv(t, bookNow)
	b := createBooking(t, env)

	gp, err := env.guestSvc.Issue(context.Background(), testUser, b.ID, types.IssueGuestPINRequest{
		GuestName:  "Sam",
		GuestPhone: "+15550100",
		ValidFrom:  rfc(checkIn.Add(-48 * time.Hour)),
		ValidUntil: rfc(checkIn.Add(24 * time.Hour)),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if gp.ValidFrom != rfc(checkIn) || gp.ValidUntil != rfc(checkIn.Add(24*time.Hour)) {
		t.Errorf("expected window clamped to check-in, got %s..%s", gp.ValidFrom, gp.ValidUntil)
	}
	if len(gp.PIN) != 4 {
		t.Errorf("expected 4-digit PIN in issue response, got %q", gp.PIN)
	}

	var sms []notify.Message
	for _, m := range env.sent.Messages() {
		if m.Channel == notify.ChannelSMS {
			sms = append(sms, m)
		}
	}
	if len(sms) != 1 || sms[0].To != "+15550100" {
		t.Fatalf("expected one SMS to the guest, got %+v", sms)
	}

	list, err := env.guestSvc.List(context.Background(), testUser, b.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].PIN != "" || list[0].GuestName != "Sam" {
		t.Errorf("expected listed pin without clear value, got %+v", list)
	}
}

func TestIssue_Rejections(t *testing.T) {
	env := newTestEnv(t, bookNow)
	b := createBooking(t, env)
	ctx := context.Background()

	if _, err := env.guestSvc.Issue(ctx, testUser, b.ID, types.IssueGuestPINRequest{}); !errors.Is(err, service.ErrGuestNameRequired) {
		t.Errorf("expected ErrGuestNameRequired, got %v", err)
	}
	if _, err := env.guestSvc.Issue(ctx, otherUser, b.ID, types.IssueGuestPINRequest{GuestName: "Sam"}); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	_, err := env.guestSvc.Issue(ctx, testUser, b.ID, types.IssueGuestPINRequest{
		GuestName:  "Sam",
		ValidFrom:  rfc(checkOut.Add(time.Hour)),
		ValidUntil: rfc(checkOut.Add(2 * time.Hour)),
	})
	if !errors.Is(err, service.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow for a window outside the stay, got %v", err)
	}

	env.clock.Set(checkOut.Add(time.Minute))
	if _, err := env.guestSvc.Issue(ctx, testUser, b.ID, types.IssueGuestPINRequest{GuestName: "Sam"}); !errors.Is(err, service.ErrGuestAccessClosed) {
		t.Errorf("expected ErrGuestAccessClosed after check-out, got %v", err)
	}
}

func TestVerify_BookingPIN(t *testing.T) {
	env := newTestEnv(t, bookNow)
	b := createBooking(t, env)
	ctx := context.Background()

	env.clock.Set(checkIn.Add(time.Hour))
	cred, err := env.bookingSvc.Credential(ctx, testUser, b.ID, false)
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}

	resp, err := env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty, PIN: cred.PIN})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Granted || resp.Reason != service.ReasonBookingPIN {
		t.Errorf("expected booking pin grant, got %+v", resp)
	}

	env.clock.Set(checkOut.Add(time.Hour))
	resp, err = env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty, PIN: cred.PIN})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Granted || resp.Reason != service.ReasonOutside {
		t.Errorf("expected outside_window denial after check-out, got %+v", resp)
	}

	events := env.events.Events()
	last := events[len(events)-1]
	if last.Subject != store.SubjectLock || last.SubjectID != b.ID || last.Revealed {
		t.Errorf("unexpected lock event %+v", last)
	}
}

func TestVerify_GuestPINAndRevoke(t *testing.T) {
	env := newTestEnv(t, bookNow)
	b := createBooking(t, env)
	ctx := context.Background()

	gp, err := env.guestSvc.Issue(ctx, testUser, b.ID, types.IssueGuestPINRequest{GuestName: "Sam"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	env.clock.Set(checkIn.Add(time.Hour))
	cred, err := env.bookingSvc.Credential(ctx, testUser, b.ID, false)
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}
	if cred.PIN == gp.PIN {
		t.Skip("guest pin collided with booking pin")
	}

	resp, err := env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty, PIN: gp.PIN})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Granted || resp.Reason != service.ReasonGuestPIN {
		t.Fatalf("expected guest pin grant, got %+v", resp)
	}

	if err := env.guestSvc.Revoke(ctx, testUser, b.ID, gp.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	resp, err = env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty, PIN: gp.PIN})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Granted || resp.Reason != service.ReasonRevoked {
		t.Errorf("expected revoked denial, got %+v", resp)
	}

	if err := env.guestSvc.Revoke(ctx, testUser, b.ID, "gp-missing"); !errors.Is(err, service.ErrGuestPINNotFound) {
		t.Errorf("expected ErrGuestPINNotFound, got %v", err)
	}
}

func TestVerify_CancelledBookingDenied(t *testing.T) {
	env := newTestEnv(t, bookNow)
	b := createBooking(t, env)
	ctx := context.Background()

	gp, err := env.guestSvc.Issue(ctx, testUser, b.ID, types.IssueGuestPINRequest{GuestName: "Sam"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rec, err := env.bookings.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if rec.PIN == gp.PIN {
		t.Skip("guest pin collided with booking pin")
	}
	if _, err := env.bookingSvc.Cancel(ctx, testUser, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	env.clock.Set(checkIn.Add(time.Hour))
	for _, pin := range []string{rec.PIN, gp.PIN} {
		resp, err := env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty, PIN: pin})
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if resp.Granted || resp.Reason != service.ReasonCancelled {
			t.Errorf("expected cancelled denial for %s, got %+v", pin, resp)
		}
	}
}

func TestVerify_NoMatchAndValidation(t *testing.T) {
	env := newTestEnv(t, bookNow)
	ctx := context.Background()

	resp, err := env.guestSvc.Verify(ctx, types.VerifyRequest{
		PropertyID:  testProperty,
		PIN:         "0000",
		RequestedAt: rfc(bookNow),
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if resp.Granted || resp.Reason != service.ReasonNoMatch {
		t.Errorf("expected no_match, got %+v", resp)
	}

	events := env.events.Events()
	if len(events) != 1 || events[0].RequestedAt == nil || !events[0].RequestedAt.Equal(bookNow) {
		t.Errorf("expected requested_at recorded, got %+v", events)
	}

	if _, err := env.guestSvc.Verify(ctx, types.VerifyRequest{PropertyID: testProperty}); !errors.Is(err, service.ErrInvalidVerify) {
		t.Errorf("expected ErrInvalidVerify, got %v", err)
	}
}
