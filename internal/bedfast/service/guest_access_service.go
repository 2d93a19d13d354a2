package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/types"
	"github.com/bedfast/access-service/internal/notify"
)

// GuestAccessService issues temporary PINs on behalf of a booking owner and
// answers lock-side PIN checks.
type GuestAccessService struct {
	properties store.PropertyStore
	bookings   store.BookingStore
	guestPINs  store.GuestPINStore
	creds      *credentials
	notifier   notify.Notifier
	opts       Options
	log        *zap.Logger
}

func NewGuestAccessService(st Stores, n notify.Notifier, opts Options, log *zap.Logger) *GuestAccessService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("guest_access")
	return &GuestAccessService{
		properties: st.Properties,
		bookings:   st.Bookings,
		guestPINs:  st.GuestPINs,
		creds:      &credentials{policy: opts.Policy, events: st.Events, syncs: st.Syncs, log: log},
		notifier:   n,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

// Issue creates a guest PIN inside the booking window. The clear PIN is only
// returned here.
func (s *GuestAccessService) Issue(ctx context.Context, userID, bookingID string, req types.IssueGuestPINRequest) (types.GuestPINView, error) {
	rec, err := ownedBooking(ctx, s.bookings, userID, bookingID)
	if err != nil {
		return types.GuestPINView{}, err
	}
	now := s.opts.Clock()

	bw := bookingWindow(rec)
	st := s.opts.Policy.Evaluate(bw, access.Context{Now: now}).Status
	if !bookingAffordances(rec, st).CanIssueGuestPIN {
		return types.GuestPINView{}, ErrGuestAccessClosed
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return types.GuestPINView{}, ErrGuestNameRequired
	}

	w, err := clampWindow(bw, req.ValidFrom, req.ValidUntil)
	if err != nil {
		return types.GuestPINView{}, err
	}
	if !w.End.After(now) {
		return types.GuestPINView{}, ErrWindowInPast
	}

	pin, err := newPIN()
	if err != nil {
		return types.GuestPINView{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.opts.PINHashCost)
	if err != nil {
		return types.GuestPINView{}, fmt.Errorf("hash guest pin: %w", err)
	}

	gp := store.GuestPINRecord{
		ID:         uuid.NewString(),
		BookingID:  rec.ID,
		PropertyID: rec.PropertyID,
		GuestName:  name,
		GuestPhone: strings.TrimSpace(req.GuestPhone),
		PINHash:    hash,
		ValidFrom:  w.Start,
		ValidUntil: w.End,
		CreatedAt:  now,
	}
	if err := s.guestPINs.CreateGuestPIN(ctx, gp); err != nil {
		return types.GuestPINView{}, fmt.Errorf("create guest pin: %w", err)
	}

	s.log.Info("guest pin issued",
		zap.String("booking_id", rec.ID),
		zap.String("guest_pin_id", gp.ID),
		zap.Time("valid_from", gp.ValidFrom),
		zap.Time("valid_until", gp.ValidUntil),
	)

	if gp.GuestPhone != "" {
		s.sendPIN(ctx, gp, pin)
	}

	view := s.view(gp, now)
	view.PIN = pin
	return view, nil
}

func (s *GuestAccessService) sendPIN(ctx context.Context, gp store.GuestPINRecord, pin string) {
	propName := gp.PropertyID
	if p, err := s.properties.GetProperty(ctx, gp.PropertyID); err == nil {
		propName = p.Name
	}
	msg := notify.Message{
		Channel: notify.ChannelSMS,
		To:      gp.GuestPhone,
		ToName:  gp.GuestName,
		Body: fmt.Sprintf("Hi %s, your BedFast door PIN for %s is %s. Valid %s to %s.",
			gp.GuestName, propName, pin, formatTime(gp.ValidFrom), formatTime(gp.ValidUntil)),
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Warn("guest pin sms not sent", zap.String("guest_pin_id", gp.ID), zap.Error(err))
	}
}

func (s *GuestAccessService) List(ctx context.Context, userID, bookingID string) ([]types.GuestPINView, error) {
	rec, err := ownedBooking(ctx, s.bookings, userID, bookingID)
	if err != nil {
		return nil, err
	}
	pins, err := s.guestPINs.ListGuestPINsByBooking(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	now := s.opts.Clock()
	out := make([]types.GuestPINView, 0, len(pins))
	for _, gp := range pins {
		out = append(out, s.view(gp, now))
	}
	return out, nil
}

func (s *GuestAccessService) Revoke(ctx context.Context, userID, bookingID, pinID string) error {
	rec, err := ownedBooking(ctx, s.bookings, userID, bookingID)
	if err != nil {
		return err
	}
	if err := s.guestPINs.RevokeGuestPIN(ctx, rec.ID, strings.TrimSpace(pinID), s.opts.Clock()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGuestPINNotFound
		}
		return err
	}
	s.log.Info("guest pin revoked", zap.String("booking_id", rec.ID), zap.String("guest_pin_id", pinID))
	return nil
}

// Verify answers a lock that had a PIN keyed in. Access is granted when the
// PIN matches an uncancelled booking or an unrevoked guest PIN for the property
// and that window is Active right now. Locks are online by definition, so no
// offline grace applies.
func (s *GuestAccessService) Verify(ctx context.Context, req types.VerifyRequest) (types.VerifyResponse, error) {
	propertyID := strings.TrimSpace(req.PropertyID)
	pin := strings.TrimSpace(req.PIN)
	if propertyID == "" || pin == "" {
		return types.VerifyResponse{}, ErrInvalidVerify
	}
	now := s.opts.Clock()

	d, err := s.match(ctx, propertyID, pin, now)
	if err != nil {
		return types.VerifyResponse{}, err
	}

	s.creds.record(ctx, store.AccessEventRecord{
		Subject:      store.SubjectLock,
		SubjectID:    d.subjectID,
		PropertyID:   propertyID,
		AccessStatus: string(d.status),
		Revealed:     d.granted,
		Reason:       d.reason,
		RequestedAt:  parseOptionalTimestamp(req.RequestedAt),
		DecidedAt:    now,
	})

	return types.VerifyResponse{
		Granted:    d.granted,
		Reason:     d.reason,
		PropertyID: propertyID,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

type lockDecision struct {
	granted   bool
	reason    string
	subjectID string
	status    access.Status
}

// match looks for a PIN whose window is Active. A PIN that matches outside
// its window, a revoked one, or one belonging to a cancelled booking is
// remembered as the denial reason while the search continues.
func (s *GuestAccessService) match(ctx context.Context, propertyID, pin string, now time.Time) (lockDecision, error) {
	online := access.Context{Now: now}
	denied := lockDecision{reason: ReasonNoMatch, status: access.StatusExpired}

	bookings, err := s.bookings.ListBookingsByProperty(ctx, propertyID)
	if err != nil {
		return lockDecision{}, err
	}
	cancelled := make(map[string]bool)
	for _, b := range bookings {
		if b.State == store.BookingCancelled {
			cancelled[b.ID] = true
		}
		if subtle.ConstantTimeCompare([]byte(b.PIN), []byte(pin)) != 1 {
			continue
		}
		st := s.opts.Policy.Evaluate(bookingWindow(b), online).Status
		if cancelled[b.ID] {
			denied = lockDecision{reason: ReasonCancelled, subjectID: b.ID, status: st}
			continue
		}
		if st == access.StatusActive {
			return lockDecision{granted: true, reason: ReasonBookingPIN, subjectID: b.ID, status: st}, nil
		}
		denied = lockDecision{reason: ReasonOutside, subjectID: b.ID, status: st}
	}

	guests, err := s.guestPINs.ListGuestPINsByProperty(ctx, propertyID)
	if err != nil {
		return lockDecision{}, err
	}
	for _, gp := range guests {
		if bcrypt.CompareHashAndPassword(gp.PINHash, []byte(pin)) != nil {
			continue
		}
		st := s.opts.Policy.Evaluate(guestWindow(gp), online).Status
		if gp.RevokedAt != nil {
			denied = lockDecision{reason: ReasonRevoked, subjectID: gp.ID, status: st}
			continue
		}
		if cancelled[gp.BookingID] {
			denied = lockDecision{reason: ReasonCancelled, subjectID: gp.ID, status: st}
			continue
		}
		if st == access.StatusActive {
			return lockDecision{granted: true, reason: ReasonGuestPIN, subjectID: gp.ID, status: st}, nil
		}
		denied = lockDecision{reason: ReasonOutside, subjectID: gp.ID, status: st}
	}

	return denied, nil
}

func (s *GuestAccessService) view(gp store.GuestPINRecord, now time.Time) types.GuestPINView {
	st := s.opts.Policy.Evaluate(guestWindow(gp), access.Context{Now: now}).Status
	return types.GuestPINView{
		ID:           gp.ID,
		BookingID:    gp.BookingID,
		GuestName:    gp.GuestName,
		ValidFrom:    formatTime(gp.ValidFrom),
		ValidUntil:   formatTime(gp.ValidUntil),
		AccessStatus: string(st),
		Revoked:      gp.RevokedAt != nil,
		CreatedAt:    formatTime(gp.CreatedAt),
	}
}

func guestWindow(gp store.GuestPINRecord) access.Window {
	return access.Window{Start: gp.ValidFrom, End: gp.ValidUntil}
}

// clampWindow narrows the requested guest window to the booking window.
// Missing bounds default to the booking's own.
func clampWindow(bw access.Window, from, until string) (access.Window, error) {
	w := bw
	if strings.TrimSpace(from) != "" {
		t, err := parseInstant("valid_from", from)
		if err != nil {
			return access.Window{}, err
		}
		if t.After(w.Start) {
			w.Start = t
		}
	}
	if strings.TrimSpace(until) != "" {
		t, err := parseInstant("valid_until", until)
		if err != nil {
			return access.Window{}, err
		}
		if t.Before(w.End) {
			w.End = t
		}
	}
	if !w.Valid() {
		return access.Window{}, ErrInvalidWindow
	}
	return w, nil
}
