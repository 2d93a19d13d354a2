package service

import (
	"time"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/types"
)

// WindowEvaluator answers stateless evaluation requests for windows the
// caller already holds. Nothing is stored or recorded.
type WindowEvaluator struct {
	policy access.Policy
	clock  Clock
}

func NewWindowEvaluator(opts Options) *WindowEvaluator {
	opts = opts.withDefaults()
	return &WindowEvaluator{policy: opts.Policy, clock: opts.Clock}
}

// Evaluate parses req and runs the evaluation. An empty Now means the server
// clock. Windows with start >= end are rejected with ErrInvalidWindow.
func (e *WindowEvaluator) Evaluate(req types.EvaluateRequest) (types.EvaluateResponse, error) {
	start, err := parseInstant("start", req.Start)
	if err != nil {
		return types.EvaluateResponse{}, err
	}
	end, err := parseInstant("end", req.End)
	if err != nil {
		return types.EvaluateResponse{}, err
	}
	w := access.Window{Start: start, End: end}
	if !w.Valid() {
		return types.EvaluateResponse{}, ErrInvalidWindow
	}

	serverNow := e.clock()
	now := serverNow
	if req.Now != "" {
		if now, err = parseInstant("now", req.Now); err != nil {
			return types.EvaluateResponse{}, err
		}
	}

	var lastSync *time.Time
	if req.LastSync != "" {
		ls, err := parseInstant("last_sync", req.LastSync)
		if err != nil {
			return types.EvaluateResponse{}, err
		}
		lastSync = &ls
	}

	res := e.policy.Evaluate(w, access.Context{Now: now, Offline: req.Offline, LastSync: lastSync})
	return types.EvaluateResponse{
		Status:     string(res.Status),
		Reveal:     res.Reveal,
		Remaining:  toRemaining(res.Remaining),
		ServerTime: serverNow.Format(time.RFC3339Nano),
	}, nil
}
