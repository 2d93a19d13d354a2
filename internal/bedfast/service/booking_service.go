package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/types"
	"github.com/bedfast/access-service/internal/notify"
)

// BookingService owns the booking lifecycle. Access status is never stored:
// every read evaluates the booking window against the clock.
type BookingService struct {
	properties store.PropertyStore
	bookings   store.BookingStore
	creds      *credentials
	notifier   notify.Notifier
	opts       Options
	log        *zap.Logger
}

func NewBookingService(st Stores, n notify.Notifier, opts Options, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("bookings")
	return &BookingService{
		properties: st.Properties,
		bookings:   st.Bookings,
		creds:      &credentials{policy: opts.Policy, events: st.Events, syncs: st.Syncs, log: log},
		notifier:   n,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

// Create validates the request, runs the simulated payment, and stores a
// confirmed booking with a fresh PIN.
func (s *BookingService) Create(ctx context.Context, userID string, req types.CreateBookingRequest) (types.BookingView, error) {
	if userID == "" {
		return types.BookingView{}, ErrForbidden
	}
	now := s.opts.Clock()

	prop, err := lookupProperty(ctx, s.properties, strings.TrimSpace(req.PropertyID))
	if err != nil {
		return types.BookingView{}, err
	}

	w, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		return types.BookingView{}, err
	}
	if w.Start.Before(now) {
		return types.BookingView{}, ErrWindowInPast
	}

	guests := req.Guests
	if guests == 0 {
		guests = 1
	}
	if guests < 1 {
		return types.BookingView{}, ErrInvalidGuests
	}

	if err := s.pay(ctx); err != nil {
		return types.BookingView{}, err
	}

	pin, err := newPIN()
	if err != nil {
		return types.BookingView{}, err
	}

	rec := store.BookingRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		PropertyID:    prop.ID,
		CheckIn:       w.Start,
		CheckOut:      w.End,
		Guests:        guests,
		PIN:           pin,
		State:         store.BookingConfirmed,
		PaymentStatus: "paid",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.bookings.CreateBooking(ctx, rec); err != nil {
		return types.BookingView{}, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("booking confirmed",
		zap.String("booking_id", rec.ID),
		zap.String("property_id", prop.ID),
		zap.Time("check_in", rec.CheckIn),
	)

	if req.Email != "" {
		s.sendConfirmation(ctx, req.Email, prop, rec)
	}

	return s.view(rec, prop.Name, now), nil
}

// pay stands in for a payment provider round-trip.
func (s *BookingService) pay(ctx context.Context) error {
	if s.opts.PaymentDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.opts.PaymentDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *BookingService) sendConfirmation(ctx context.Context, to string, prop store.PropertyRecord, rec store.BookingRecord) {
	msg := notify.Message{
		Channel: notify.ChannelEmail,
		To:      to,
		Subject: "Your stay at " + prop.Name + " is confirmed",
		Body: fmt.Sprintf(
			"Booking %s at %s, %s.\nCheck-in: %s\nCheck-out: %s\nYour door PIN appears in the app once check-in starts.",
			rec.ID, prop.Name, prop.Address, formatTime(rec.CheckIn), formatTime(rec.CheckOut),
		),
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Warn("booking confirmation not sent", zap.String("booking_id", rec.ID), zap.Error(err))
	}
}

func (s *BookingService) Get(ctx context.Context, userID, id string) (types.BookingView, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.BookingView{}, err
	}
	return s.view(rec, s.propertyName(ctx, rec.PropertyID), s.opts.Clock()), nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]types.BookingView, error) {
	recs, err := s.bookings.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.opts.Clock()
	out := make([]types.BookingView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.view(rec, s.propertyName(ctx, rec.PropertyID), now))
	}
	return out, nil
}

// Credential evaluates the booking window as seen by a device with the given
// connectivity and returns the PIN only when it may be shown.
func (s *BookingService) Credential(ctx context.Context, userID, id string, offline bool) (types.CredentialView, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.CredentialView{}, err
	}
	return s.creds.resolve(ctx, credential{
		subject:    store.SubjectBooking,
		subjectID:  rec.ID,
		propertyID: rec.PropertyID,
		userID:     rec.UserID,
		pin:        rec.PIN,
		window:     bookingWindow(rec),
		blocked:    rec.State == store.BookingCancelled,
	}, offline, s.opts.Clock())
}

func (s *BookingService) Cancel(ctx context.Context, userID, id string) (types.BookingView, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.BookingView{}, err
	}
	now := s.opts.Clock()
	if !s.affordances(rec, now).CanCancel {
		return types.BookingView{}, ErrNotCancellable
	}

	if err := s.bookings.UpdateBookingState(ctx, rec.ID, store.BookingCancelled, now); err != nil {
		return types.BookingView{}, fmt.Errorf("cancel booking: %w", err)
	}
	rec.State = store.BookingCancelled
	rec.UpdatedAt = now

	s.log.Info("booking cancelled", zap.String("booking_id", rec.ID))
	return s.view(rec, s.propertyName(ctx, rec.PropertyID), now), nil
}

func (s *BookingService) Feedback(ctx context.Context, userID, id string, req types.FeedbackRequest) (types.BookingView, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return types.BookingView{}, ErrInvalidRating
	}
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.BookingView{}, err
	}
	now := s.opts.Clock()
	if !s.affordances(rec, now).CanLeaveFeedback {
		return types.BookingView{}, ErrFeedbackNotAllowed
	}

	comment := strings.TrimSpace(req.Comment)
	if err := s.bookings.SetFeedback(ctx, rec.ID, req.Rating, comment, now); err != nil {
		return types.BookingView{}, fmt.Errorf("save feedback: %w", err)
	}
	rec.Rating = req.Rating
	rec.Feedback = comment
	rec.UpdatedAt = now

	return s.view(rec, s.propertyName(ctx, rec.PropertyID), now), nil
}

// owned loads a booking and checks it belongs to userID.
func (s *BookingService) owned(ctx context.Context, userID, id string) (store.BookingRecord, error) {
	return ownedBooking(ctx, s.bookings, userID, id)
}

func ownedBooking(ctx context.Context, bs store.BookingStore, userID, id string) (store.BookingRecord, error) {
	rec, err := bs.GetBooking(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.BookingRecord{}, ErrBookingNotFound
		}
		return store.BookingRecord{}, err
	}
	if userID == "" || rec.UserID != userID {
		return store.BookingRecord{}, ErrForbidden
	}
	return rec, nil
}

func (s *BookingService) propertyName(ctx context.Context, id string) string {
	p, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return ""
	}
	return p.Name
}

func (s *BookingService) affordances(rec store.BookingRecord, now time.Time) types.Affordances {
	return bookingAffordances(rec, s.opts.Policy.Evaluate(bookingWindow(rec), access.Context{Now: now}).Status)
}

func (s *BookingService) view(rec store.BookingRecord, propertyName string, now time.Time) types.BookingView {
	res := s.opts.Policy.Evaluate(bookingWindow(rec), access.Context{Now: now})
	return types.BookingView{
		ID:            rec.ID,
		PropertyID:    rec.PropertyID,
		PropertyName:  propertyName,
		CheckIn:       formatTime(rec.CheckIn),
		CheckOut:      formatTime(rec.CheckOut),
		Guests:        rec.Guests,
		State:         rec.State,
		AccessStatus:  string(res.Status),
		Remaining:     toRemaining(res.Remaining),
		Affordances:   bookingAffordances(rec, res.Status),
		Rating:        rec.Rating,
		Feedback:      rec.Feedback,
		CreatedAt:     formatTime(rec.CreatedAt),
		PaymentStatus: rec.PaymentStatus,
	}
}

// bookingAffordances maps a status onto the actions the UI may offer. A
// cancelled booking offers none.
func bookingAffordances(rec store.BookingRecord, st access.Status) types.Affordances {
	if rec.State == store.BookingCancelled {
		return types.Affordances{}
	}
	return types.Affordances{
		CanCopyPIN:       st == access.StatusActive,
		CanIssueGuestPIN: st != access.StatusExpired,
		CanLeaveFeedback: st == access.StatusExpired && rec.Rating == 0,
		CanCancel:        st == access.StatusUpcoming,
	}
}

func bookingWindow(rec store.BookingRecord) access.Window {
	return access.Window{Start: rec.CheckIn, End: rec.CheckOut}
}

func parseWindow(start, end string) (access.Window, error) {
	s, err := parseInstant("check_in", start)
	if err != nil {
		return access.Window{}, err
	}
	e, err := parseInstant("check_out", end)
	if err != nil {
		return access.Window{}, err
	}
	w := access.Window{Start: s, End: e}
	if !w.Valid() {
		return access.Window{}, ErrInvalidWindow
	}
	return w, nil
}
