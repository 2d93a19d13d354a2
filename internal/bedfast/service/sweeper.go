package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/store"
)

// Sweeper periodically marks finished bookings as completed and deletes
// access events older than the retention period.
type Sweeper struct {
	bookings  store.BookingStore
	events    store.AccessEventStore
	policy    access.Policy
	clock     Clock
	spec      string
	retention time.Duration
	log       *zap.Logger

	cron   *cron.Cron
	cancel context.CancelFunc
}

// SweeperConfig holds the parameters for NewSweeper.
type SweeperConfig struct {
	// Spec is a cron expression or descriptor. Defaults to "@every 1m".
	Spec string

	// RetentionDays is how many days of access events to keep.
	// 0 keeps everything.
	RetentionDays int
}

// SweepResult reports what one pass changed.
type SweepResult struct {
	Completed int
	Pruned    int64
}

func NewSweeper(bookings store.BookingStore, events store.AccessEventStore, cfg SweeperConfig, opts Options, log *zap.Logger) *Sweeper {
	if cfg.Spec == "" {
		cfg.Spec = "@every 1m"
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Sweeper{
		bookings:  bookings,
		events:    events,
		policy:    opts.Policy,
		clock:     opts.Clock,
		spec:      cfg.Spec,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		log:       log.Named("sweeper"),
	}
}

// Start runs one sweep immediately, then schedules the rest. Runs never
// overlap; a pass still going when the next one is due is skipped.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		s.cancel()
		return fmt.Errorf("schedule sweeper %q: %w", s.spec, err)
	}

	s.run(ctx)
	s.cron.Start()

	s.log.Info("sweeper started",
		zap.String("spec", s.spec),
		zap.Duration("event_retention", s.retention),
	)
	return nil
}

// Stop cancels an in-flight pass and waits for it to return.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Sweeper) run(ctx context.Context) {
	res, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error("sweep failed", zap.Error(err))
		return
	}
	if res.Completed > 0 || res.Pruned > 0 {
		s.log.Info("sweep done", zap.Int("completed", res.Completed), zap.Int64("pruned", res.Pruned))
	}
}

// Sweep performs a single pass.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := s.clock()

	ended, err := s.bookings.ListConfirmedEndedBy(ctx, now)
	if err != nil {
		return res, fmt.Errorf("list ended bookings: %w", err)
	}
	for _, b := range ended {
		if s.policy.Evaluate(bookingWindow(b), access.Context{Now: now}).Status != access.StatusExpired {
			continue
		}
		if err := s.bookings.UpdateBookingState(ctx, b.ID, store.BookingCompleted, now); err != nil {
			return res, fmt.Errorf("complete booking %s: %w", b.ID, err)
		}
		res.Completed++
	}

	if s.retention > 0 {
		cutoff := now.Add(-s.retention)
		n, err := s.events.PruneOlderThan(ctx, cutoff)
		if err != nil {
			return res, fmt.Errorf("prune access events: %w", err)
		}
		res.Pruned = n
	}
	return res, nil
}
