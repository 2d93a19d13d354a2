package store

import (
	"context"
	"time"
)

type ViewingRecord struct {
	ID         string
	UserID     string
	PropertyID string
	Slot       time.Time
	Note       string
	PIN        string
	CreatedAt  time.Time
}

type ViewingStore interface {
	CreateViewing(ctx context.Context, rec ViewingRecord) error
	GetViewing(ctx context.Context, id string) (ViewingRecord, error)
	ListViewingsByUser(ctx context.Context, userID string) ([]ViewingRecord, error)
}
