package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastPolicy = retryPolicy{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 4 * time.Millisecond}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{errors.New("database table is locked"), true},
		{errors.New("disk I/O error (522) IOERR_SHORT_READ"), true},
		{errors.New("UNIQUE constraint failed: bookings.booking_id"), false},
	}
	for _, tc := range cases {
		if got := isTransient(tc.err); got != tc.want {
			t.Errorf("isTransient(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := fastPolicy.retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	permanent := errors.New("constraint failed")
	err := fastPolicy.retry(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := fastPolicy.retry(context.Background(), func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != fastPolicy.maxRetries+1 {
		t.Errorf("expected %d calls, got %d", fastPolicy.maxRetries+1, calls)
	}
}

func TestBackoff_Capped(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := fastPolicy.backoff(attempt)
		if d > fastPolicy.maxDelay+fastPolicy.baseDelay {
			t.Errorf("attempt %d: backoff %s exceeds cap", attempt, d)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0002_access_events.sql")
	if err != nil || v != 2 {
		t.Errorf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Error("expected error for filename without version prefix")
	}
}
