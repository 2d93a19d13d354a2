package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
	dbpkg "github.com/bedfast/access-service/internal/db"
)

type ViewingStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewViewingStore(db *sql.DB, writer *dbpkg.Worker) *ViewingStore {
	return &ViewingStore{db: db, writer: writer}
}

const viewingColumns = `viewing_id, user_id, property_id, slot_ms, note, pin, created_at_ms`

func (s *ViewingStore) CreateViewing(ctx context.Context, rec store.ViewingRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO viewings(`+viewingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?);
`, rec.ID, rec.UserID, rec.PropertyID, toMs(rec.Slot), rec.Note, rec.PIN, toMs(rec.CreatedAt)); err != nil {
			return fmt.Errorf("CreateViewing insert: %w", err)
		}
		return nil
	})
}

func (s *ViewingStore) GetViewing(ctx context.Context, id string) (store.ViewingRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+viewingColumns+` FROM viewings WHERE viewing_id = ?;`, id)
	rec, err := scanViewing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ViewingRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.ViewingRecord{}, fmt.Errorf("GetViewing: %w", err)
	}
	return rec, nil
}

func (s *ViewingStore) ListViewingsByUser(ctx context.Context, userID string) ([]store.ViewingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+viewingColumns+` FROM viewings WHERE user_id = ? ORDER BY slot_ms;`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListViewingsByUser query: %w", err)
	}
	defer rows.Close()

	var out []store.ViewingRecord
	for rows.Next() {
		rec, err := scanViewing(rows)
		if err != nil {
			return nil, fmt.Errorf("ListViewingsByUser scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanViewing(sc scanner) (store.ViewingRecord, error) {
	var (
		rec           store.ViewingRecord
		slot, created int64
	)
	if err := sc.Scan(&rec.ID, &rec.UserID, &rec.PropertyID, &slot, &rec.Note, &rec.PIN, &created); err != nil {
		return store.ViewingRecord{}, err
	}
	rec.Slot = fromMs(slot)
	rec.CreatedAt = fromMs(created)
	return rec, nil
}
