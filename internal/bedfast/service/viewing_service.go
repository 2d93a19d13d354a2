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
)

// ViewingService schedules property viewings. A viewing's PIN works from 30
// minutes before the slot to 30 minutes after.
type ViewingService struct {
	properties store.PropertyStore
	viewings   store.ViewingStore
	creds      *credentials
	opts       Options
	log        *zap.Logger
}

func NewViewingService(st Stores, opts Options, log *zap.Logger) *ViewingService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("viewings")
	return &ViewingService{
		properties: st.Properties,
		viewings:   st.Viewings,
		creds:      &credentials{policy: opts.Policy, events: st.Events, syncs: st.Syncs, log: log},
		opts:       opts.withDefaults(),
		log:        log,
	}
}

func (s *ViewingService) Schedule(ctx context.Context, userID string, req types.ScheduleViewingRequest) (types.ViewingView, error) {
	if userID == "" {
		return types.ViewingView{}, ErrForbidden
	}
	now := s.opts.Clock()

	prop, err := lookupProperty(ctx, s.properties, strings.TrimSpace(req.PropertyID))
	if err != nil {
		return types.ViewingView{}, err
	}
	slot, err := parseInstant("slot", req.Slot)
	if err != nil {
		return types.ViewingView{}, err
	}
	if !slot.After(now) {
		return types.ViewingView{}, ErrWindowInPast
	}

	pin, err := newPIN()
	if err != nil {
		return types.ViewingView{}, err
	}

	rec := store.ViewingRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: prop.ID,
		Slot:       slot,
		Note:       strings.TrimSpace(req.Note),
		PIN:        pin,
		CreatedAt:  now,
	}
	if err := s.viewings.CreateViewing(ctx, rec); err != nil {
		return types.ViewingView{}, fmt.Errorf("create viewing: %w", err)
	}

	s.log.Info("viewing scheduled", zap.String("viewing_id", rec.ID), zap.Time("slot", slot))
	return s.view(rec, now), nil
}

func (s *ViewingService) Get(ctx context.Context, userID, id string) (types.ViewingView, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.ViewingView{}, err
	}
	return s.view(rec, s.opts.Clock()), nil
}

func (s *ViewingService) ListForUser(ctx context.Context, userID string) ([]types.ViewingView, error) {
	recs, err := s.viewings.ListViewingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.opts.Clock()
	out := make([]types.ViewingView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.view(rec, now))
	}
	return out, nil
}

func (s *ViewingService) Credential(ctx context.Context, userID, id string, offline bool) (types.CredentialView, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return types.CredentialView{}, err
	}
	return s.creds.resolve(ctx, credential{
		subject:    store.SubjectViewing,
		subjectID:  rec.ID,
		propertyID: rec.PropertyID,
		userID:     rec.UserID,
		pin:        rec.PIN,
		window:     access.ViewingWindow(rec.Slot),
	}, offline, s.opts.Clock())
}

func (s *ViewingService) owned(ctx context.Context, userID, id string) (store.ViewingRecord, error) {
	rec, err := s.viewings.GetViewing(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ViewingRecord{}, ErrViewingNotFound
		}
		return store.ViewingRecord{}, err
	}
	if userID == "" || rec.UserID != userID {
		return store.ViewingRecord{}, ErrForbidden
	}
	return rec, nil
}

func (s *ViewingService) view(rec store.ViewingRecord, now time.Time) types.ViewingView {
	w := access.ViewingWindow(rec.Slot)
	res := s.opts.Policy.Evaluate(w, access.Context{Now: now})
	return types.ViewingView{
		ID:           rec.ID,
		PropertyID:   rec.PropertyID,
		Slot:         formatTime(rec.Slot),
		Note:         rec.Note,
		ValidFrom:    formatTime(w.Start),
		ValidUntil:   formatTime(w.End),
		AccessStatus: string(res.Status),
		Remaining:    toRemaining(res.Remaining),
		CreatedAt:    formatTime(rec.CreatedAt),
	}
}
