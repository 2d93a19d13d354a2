package store

import "context"

type PropertyRecord struct {
	ID           string
	Name         string
	City         string
	Address      string
	Latitude     float64
	Longitude    float64
	NightlyPrice int
	Bedrooms     int
}

type PropertyStore interface {
	ListProperties(ctx context.Context) ([]PropertyRecord, error)
	GetProperty(ctx context.Context, id string) (PropertyRecord, error)
}
