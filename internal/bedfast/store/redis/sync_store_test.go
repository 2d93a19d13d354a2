package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSyncKey(t *testing.T) {
	if got := syncKey("user-1", "bk-9"); got != "bedfast:sync:user-1:bk-9" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestSyncStore_UnreachableServer_WrapsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	s := NewSyncStore(client, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := s.NoteSync(ctx, "user-1", "bk-9", time.Now())
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if !strings.Contains(err.Error(), "redis set last sync") {
		t.Errorf("expected wrapped error, got %v", err)
	}

	if _, err := s.LastSync(ctx, "user-1", "bk-9"); err == nil {
		t.Fatal("expected error from unreachable redis on read")
	}
}
