package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/types"
)

// Decision reasons written to the access event log.
const (
	ReasonActive       = "active"
	ReasonOfflineGrace = "offline_grace"
	ReasonCancelled    = "cancelled"
	ReasonBookingPIN   = "booking_pin"
	ReasonGuestPIN     = "guest_pin"
	ReasonRevoked      = "revoked"
	ReasonOutside      = "outside_window"
	ReasonNoMatch      = "no_match"
)

// credential is one PIN-bearing record seen from the PIN screen.
type credential struct {
	subject    string
	subjectID  string
	propertyID string
	userID     string
	pin        string
	window     access.Window
	blocked    bool // cancelled bookings never reveal
}

// credentials evaluates credentials for their owners, keeping the last-sync
// bookkeeping and the audit log in step with every decision.
type credentials struct {
	policy access.Policy
	events store.AccessEventStore
	syncs  store.SyncStore
	log    *zap.Logger
}

func (c *credentials) resolve(ctx context.Context, cr credential, offline bool, now time.Time) (types.CredentialView, error) {
	var lastSync *time.Time
	if offline {
		ls, err := c.syncs.LastSync(ctx, cr.userID, cr.subjectID)
		if err != nil {
			return types.CredentialView{}, fmt.Errorf("load last sync: %w", err)
		}
		lastSync = ls
	}

	res := c.policy.Evaluate(cr.window, access.Context{Now: now, Offline: offline, LastSync: lastSync})
	reveal := res.Reveal && !cr.blocked

	if !offline {
		if err := c.syncs.NoteSync(ctx, cr.userID, cr.subjectID, now); err != nil {
			c.log.Warn("note sync failed", zap.String("subject_id", cr.subjectID), zap.Error(err))
		} else {
			lastSync = &now
		}
	}

	c.record(ctx, store.AccessEventRecord{
		Subject:      cr.subject,
		SubjectID:    cr.subjectID,
		PropertyID:   cr.propertyID,
		UserID:       cr.userID,
		Offline:      offline,
		AccessStatus: string(res.Status),
		Revealed:     reveal,
		Reason:       decisionReason(res, cr.blocked),
		DecidedAt:    now,
	})

	view := types.CredentialView{
		Reveal:       reveal,
		AccessStatus: string(res.Status),
		Remaining:    toRemaining(res.Remaining),
		ValidFrom:    formatTime(cr.window.Start),
		ValidUntil:   formatTime(cr.window.End),
		LastSync:     formatOptional(lastSync),
		ServerTime:   now.Format(time.RFC3339Nano),
	}
	if reveal {
		view.PIN = cr.pin
	}
	return view, nil
}

// record persists a decision. A failed audit write is logged and does not
// change the decision.
func (c *credentials) record(ctx context.Context, rec store.AccessEventRecord) {
	if err := c.events.RecordEvent(ctx, rec); err != nil {
		c.log.Warn("record access event failed",
			zap.String("subject", rec.Subject),
			zap.String("subject_id", rec.SubjectID),
			zap.Error(err),
		)
	}
}

func decisionReason(res access.Result, blocked bool) string {
	switch {
	case blocked:
		return ReasonCancelled
	case res.Reveal && res.Status == access.StatusActive:
		return ReasonActive
	case res.Reveal:
		return ReasonOfflineGrace
	default:
		return string(res.Status)
	}
}

func toRemaining(r *access.Remaining) *types.Remaining {
	if r == nil {
		return nil
	}
	return &types.Remaining{Hours: r.Hours, Minutes: r.Minutes}
}
