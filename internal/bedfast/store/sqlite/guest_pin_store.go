package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
	dbpkg "github.com/bedfast/access-service/internal/db"
)

type GuestPINStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewGuestPINStore(db *sql.DB, writer *dbpkg.Worker) *GuestPINStore {
	return &GuestPINStore{db: db, writer: writer}
}

const guestPINColumns = `guest_pin_id, booking_id, property_id, guest_name, guest_phone, pin_hash,
  valid_from_ms, valid_until_ms, revoked_at_ms, created_at_ms`

func (s *GuestPINStore) CreateGuestPIN(ctx context.Context, rec store.GuestPINRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO guest_pins(`+guestPINColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.BookingID, rec.PropertyID, rec.GuestName, rec.GuestPhone, rec.PINHash,
			toMs(rec.ValidFrom), toMs(rec.ValidUntil), nullableMs(rec.RevokedAt), toMs(rec.CreatedAt),
		); err != nil {
			return fmt.Errorf("CreateGuestPIN insert: %w", err)
		}
		return nil
	})
}

func (s *GuestPINStore) ListGuestPINsByBooking(ctx context.Context, bookingID string) ([]store.GuestPINRecord, error) {
	return s.list(ctx, `WHERE booking_id = ?`, bookingID)
}

func (s *GuestPINStore) ListGuestPINsByProperty(ctx context.Context, propertyID string) ([]store.GuestPINRecord, error) {
	return s.list(ctx, `WHERE property_id = ?`, propertyID)
}

// RevokeGuestPIN stamps revoked_at once; revoking twice keeps the first
// instant.
func (s *GuestPINStore) RevokeGuestPIN(ctx context.Context, bookingID, id string, t time.Time) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE guest_pins SET revoked_at_ms = COALESCE(revoked_at_ms, ?)
WHERE guest_pin_id = ? AND booking_id = ?;
`, toMs(t), id, bookingID)
		if err != nil {
			return fmt.Errorf("RevokeGuestPIN: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("RevokeGuestPIN rows affected: %w", err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *GuestPINStore) list(ctx context.Context, where string, args ...any) ([]store.GuestPINRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guestPINColumns+` FROM guest_pins `+where+` ORDER BY created_at_ms;`, args...)
	if err != nil {
		return nil, fmt.Errorf("list guest pins: %w", err)
	}
	defer rows.Close()

	var out []store.GuestPINRecord
	for rows.Next() {
		var (
			rec                  store.GuestPINRecord
			from, until, created int64
			revoked              sql.NullInt64
		)
		if err := rows.Scan(
			&rec.ID, &rec.BookingID, &rec.PropertyID, &rec.GuestName, &rec.GuestPhone, &rec.PINHash,
			&from, &until, &revoked, &created,
		); err != nil {
			return nil, fmt.Errorf("scan guest pin: %w", err)
		}
		rec.ValidFrom = fromMs(from)
		rec.ValidUntil = fromMs(until)
		rec.RevokedAt = fromNullMs(revoked)
		rec.CreatedAt = fromMs(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
