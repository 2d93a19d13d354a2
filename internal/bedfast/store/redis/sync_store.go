package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncStore keeps last-sync instants in Redis so every API replica sees the
// same value. Entries expire after ttl; a missing entry reads as "never
// synced", which an offline evaluation treats as "skip the sync check".
type SyncStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSyncStore(redisClient *redis.Client, ttl time.Duration) *SyncStore {
	return &SyncStore{redis: redisClient, ttl: ttl}
}

func (s *SyncStore) NoteSync(ctx context.Context, userID, subjectID string, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	key := syncKey(userID, subjectID)
	if err := s.redis.Set(ctx, key, t.UTC().UnixMilli(), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set last sync: %w", err)
	}
	return nil
}

func (s *SyncStore) LastSync(ctx context.Context, userID, subjectID string) (*time.Time, error) {
	data, err := s.redis.Get(ctx, syncKey(userID, subjectID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get last sync: %w", err)
	}

	ms, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached last sync: %w", err)
	}
	t := time.UnixMilli(ms).UTC()
	return &t, nil
}

func syncKey(userID, subjectID string) string {
	return fmt.Sprintf("bedfast:sync:%s:%s", userID, subjectID)
}
