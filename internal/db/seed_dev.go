package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
)

// DemoProperties is the fixed catalogue served in dev and by the in-memory
// store.
func DemoProperties() []store.PropertyRecord {
	return []store.PropertyRecord{
		{ID: "prop-harbour-loft", Name: "Harbour Loft", City: "Lisbon", Address: "Rua do Alecrim 12", Latitude: 38.7077, Longitude: -9.1427, NightlyPrice: 145, Bedrooms: 1},
		{ID: "prop-canal-house", Name: "Canal House", City: "Amsterdam", Address: "Prinsengracht 263", Latitude: 52.3752, Longitude: 4.8840, NightlyPrice: 210, Bedrooms: 2},
		{ID: "prop-old-town-studio", Name: "Old Town Studio", City: "Kraków", Address: "Floriańska 14", Latitude: 50.0633, Longitude: 19.9401, NightlyPrice: 79, Bedrooms: 1},
		{ID: "prop-garden-flat", Name: "Garden Flat", City: "London", Address: "12 Elgin Crescent", Latitude: 51.5134, Longitude: -0.2050, NightlyPrice: 185, Bedrooms: 2},
		{ID: "prop-seaside-cottage", Name: "Seaside Cottage", City: "Brighton", Address: "4 Marine Parade", Latitude: 50.8194, Longitude: -0.1327, NightlyPrice: 160, Bedrooms: 3},
	}
}

// SeedDev upserts props into the properties table.
func SeedDev(ctx context.Context, conn *sql.DB, props []store.PropertyRecord) error {
	now := time.Now().UTC().UnixMilli()

	for _, p := range props {
		if _, err := conn.ExecContext(ctx, `
INSERT INTO properties(
  property_id, name, city, address, latitude, longitude,
  nightly_price, bedrooms, created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(property_id) DO UPDATE SET
  name = excluded.name,
  city = excluded.city,
  address = excluded.address,
  latitude = excluded.latitude,
  longitude = excluded.longitude,
  nightly_price = excluded.nightly_price,
  bedrooms = excluded.bedrooms,
  updated_at_ms = excluded.updated_at_ms;
`, p.ID, p.Name, p.City, p.Address, p.Latitude, p.Longitude,
			p.NightlyPrice, p.Bedrooms, now, now); err != nil {
			return fmt.Errorf("seed property %s: %w", p.ID, err)
		}
	}

	return nil
}
