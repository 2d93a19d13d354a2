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

type BookingStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBookingStore(db *sql.DB, writer *dbpkg.Worker) *BookingStore {
	return &BookingStore{db: db, writer: writer}
}

const bookingColumns = `booking_id, user_id, property_id, check_in_ms, check_out_ms, guests, pin,
  state, payment_status, rating, feedback, created_at_ms, updated_at_ms`

func (s *BookingStore) CreateBooking(ctx context.Context, rec store.BookingRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO bookings(`+bookingColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.UserID, rec.PropertyID, toMs(rec.CheckIn), toMs(rec.CheckOut),
			rec.Guests, rec.PIN, rec.State, rec.PaymentStatus, rec.Rating, rec.Feedback,
			toMs(rec.CreatedAt), toMs(rec.UpdatedAt),
		); err != nil {
			return fmt.Errorf("CreateBooking insert: %w", err)
		}
		return nil
	})
}

func (s *BookingStore) GetBooking(ctx context.Context, id string) (store.BookingRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ?;`, id)
	rec, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.BookingRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.BookingRecord{}, fmt.Errorf("GetBooking: %w", err)
	}
	return rec, nil
}

func (s *BookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]store.BookingRecord, error) {
	return s.list(ctx, `WHERE user_id = ? ORDER BY check_in_ms`, userID)
}

func (s *BookingStore) ListBookingsByProperty(ctx context.Context, propertyID string) ([]store.BookingRecord, error) {
	return s.list(ctx, `WHERE property_id = ? AND state = ? ORDER BY check_in_ms`, propertyID, store.BookingConfirmed)
}

func (s *BookingStore) ListConfirmedEndedBy(ctx context.Context, cutoff time.Time) ([]store.BookingRecord, error) {
	return s.list(ctx, `WHERE state = ? AND check_out_ms <= ? ORDER BY check_in_ms`, store.BookingConfirmed, toMs(cutoff))
}

func (s *BookingStore) UpdateBookingState(ctx context.Context, id, state string, t time.Time) error {
	return s.update(ctx, "UpdateBookingState",
		`UPDATE bookings SET state = ?, updated_at_ms = ? WHERE booking_id = ?;`,
		state, toMs(t), id)
}

func (s *BookingStore) SetFeedback(ctx context.Context, id string, rating int, comment string, t time.Time) error {
	return s.update(ctx, "SetFeedback",
		`UPDATE bookings SET rating = ?, feedback = ?, updated_at_ms = ? WHERE booking_id = ?;`,
		rating, comment, toMs(t), id)
}

func (s *BookingStore) update(ctx context.Context, op, query string, args ...any) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s rows affected: %w", op, err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *BookingStore) list(ctx context.Context, where string, args ...any) ([]store.BookingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings `+where+`;`, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []store.BookingRecord
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanBooking(sc scanner) (store.BookingRecord, error) {
	var (
		rec                             store.BookingRecord
		checkIn, checkOut, created, upd int64
	)
	err := sc.Scan(
		&rec.ID, &rec.UserID, &rec.PropertyID, &checkIn, &checkOut, &rec.Guests, &rec.PIN,
		&rec.State, &rec.PaymentStatus, &rec.Rating, &rec.Feedback, &created, &upd,
	)
	if err != nil {
		return store.BookingRecord{}, err
	}
	rec.CheckIn = fromMs(checkIn)
	rec.CheckOut = fromMs(checkOut)
	rec.CreatedAt = fromMs(created)
	rec.UpdatedAt = fromMs(upd)
	return rec, nil
}
