package db

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// retryPolicy controls retries of transient SQLite errors. busy_timeout
// absorbs most SQLITE_BUSY at the connection level; what is left is retried
// here with exponential backoff and jitter.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryPolicy = retryPolicy{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// isTransient reports whether err is a SQLite lock or short-read error that
// is worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retry runs fn until it succeeds, fails permanently, retries run out, or
// ctx is done.
func (p retryPolicy) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isTransient(lastErr) {
			return lastErr
		}
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff(attempt)):
		}
	}
	return lastErr
}

// backoff is baseDelay * 2^attempt, capped at maxDelay, plus up to baseDelay
// of jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	delay := p.baseDelay << uint(attempt)
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay + time.Duration(rand.Int64N(int64(p.baseDelay)))
}
