package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

// PropertyStore is read-only; the catalogue is written by db.SeedDev.
type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyColumns = `property_id, name, city, address, latitude, longitude, nightly_price, bedrooms`

func (s *PropertyStore) ListProperties(ctx context.Context) ([]store.PropertyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY property_id;`)
	if err != nil {
		return nil, fmt.Errorf("ListProperties query: %w", err)
	}
	defer rows.Close()

	var out []store.PropertyRecord
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProperties scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PropertyStore) GetProperty(ctx context.Context, id string) (store.PropertyRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE property_id = ?;`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.PropertyRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.PropertyRecord{}, fmt.Errorf("GetProperty: %w", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(sc scanner) (store.PropertyRecord, error) {
	var p store.PropertyRecord
	err := sc.Scan(&p.ID, &p.Name, &p.City, &p.Address, &p.Latitude, &p.Longitude, &p.NightlyPrice, &p.Bedrooms)
	return p, err
}
