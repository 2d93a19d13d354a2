package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bedfast/access-service/internal/bedfast/store"
	"github.com/bedfast/access-service/internal/bedfast/types"
)

// Catalog serves the read-only property list.
type Catalog struct {
	properties store.PropertyStore
}

func NewCatalog(ps store.PropertyStore) *Catalog {
	return &Catalog{properties: ps}
}

func (c *Catalog) List(ctx context.Context) ([]types.PropertyView, error) {
	recs, err := c.properties.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.PropertyView, 0, len(recs))
	for _, r := range recs {
		out = append(out, propertyView(r))
	}
	return out, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (types.PropertyView, error) {
	rec, err := c.properties.GetProperty(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.PropertyView{}, ErrPropertyNotFound
		}
		return types.PropertyView{}, err
	}
	return propertyView(rec), nil
}

func propertyView(r store.PropertyRecord) types.PropertyView {
	return types.PropertyView{
		ID:           r.ID,
		Name:         r.Name,
		City:         r.City,
		Address:      r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		NightlyPrice: r.NightlyPrice,
		Bedrooms:     r.Bedrooms,
	}
}

// lookupProperty maps a missing property to ErrPropertyNotFound.
func lookupProperty(ctx context.Context, ps store.PropertyStore, id string) (store.PropertyRecord, error) {
	rec, err := ps.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.PropertyRecord{}, ErrPropertyNotFound
		}
		return store.PropertyRecord{}, err
	}
	return rec, nil
}
