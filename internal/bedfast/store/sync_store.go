package store

import (
	"context"
	"time"
)

// SyncStore remembers when a user's device last fetched a credential while
// online. That instant bounds what an offline device may keep showing.
type SyncStore interface {
	NoteSync(ctx context.Context, userID, subjectID string, t time.Time) error
	// LastSync returns nil when no sync has been recorded.
	LastSync(ctx context.Context, userID, subjectID string) (*time.Time, error)
}
