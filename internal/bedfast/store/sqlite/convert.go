package sqlite

import (
	"database/sql"
	"time"
)

// Timestamps are stored as UTC unix milliseconds.

func toMs(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMs(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func nullableMs(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMs(*t)
}

func fromNullMs(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMs(v.Int64)
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
