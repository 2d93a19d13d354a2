package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
	dbpkg "github.com/bedfast/access-service/internal/db"
)

type AccessEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessEventStore(db *sql.DB, writer *dbpkg.Worker) *AccessEventStore {
	return &AccessEventStore{db: db, writer: writer}
}

func (s *AccessEventStore) RecordEvent(ctx context.Context, rec store.AccessEventRecord) error {
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now().UTC()
	}

	var propertyID, userID any
	if rec.PropertyID != "" {
		propertyID = rec.PropertyID
	}
	if rec.UserID != "" {
		userID = rec.UserID
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_events(
  subject, subject_id, property_id, user_id, offline,
  access_status, revealed, reason, requested_at_ms, decided_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.Subject, rec.SubjectID, propertyID, userID, boolInt(rec.Offline),
			rec.AccessStatus, boolInt(rec.Revealed), rec.Reason,
			nullableMs(rec.RequestedAt), toMs(rec.DecidedAt),
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}

func (s *AccessEventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM access_events WHERE decided_at_ms < ?;`, toMs(cutoff))
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}
