package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bedfast/access-service/internal/bedfast/store"
	sqlitestore "github.com/bedfast/access-service/internal/bedfast/store/sqlite"
	"github.com/bedfast/access-service/internal/db"
)

func TestPropertyStore_ListsSeededCatalogue(t *testing.T) {
	conn := openTestDB(t)
	ps := sqlitestore.NewPropertyStore(conn)

	props, err := ps.ListProperties(context.Background())
	if err != nil {
		t.Fatalf("ListProperties: %v", err)
	}
	if len(props) != len(db.DemoProperties()) {
		t.Fatalf("expected %d properties, got %d", len(db.DemoProperties()), len(props))
	}

	p, err := ps.GetProperty(context.Background(), testProperty)
	if err != nil {
		t.Fatalf("GetProperty: %v", err)
	}
	if p.Name != "Harbour Loft" || p.City != "Lisbon" {
		t.Errorf("unexpected property %+v", p)
	}
}

func TestPropertyStore_GetMissing_ErrNotFound(t *testing.T) {
	conn := openTestDB(t)
	_, err := sqlitestore.NewPropertyStore(conn).GetProperty(context.Background(), "prop-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestViewingStore_CreateGetList(t *testing.T) {
	conn := openTestDB(t)
	vs := sqlitestore.NewViewingStore(conn, newTestWriter(t, conn))
	ctx := context.Background()

	slot := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"vw-late", "vw-early"} {
		err := vs.CreateViewing(ctx, store.ViewingRecord{
			ID:         id,
			UserID:     "user-1",
			PropertyID: testProperty,
			Slot:       slot.Add(time.Duration(1-i) * 24 * time.Hour),
			Note:       "ring twice",
			PIN:        "1234",
		})
		if err != nil {
			t.Fatalf("CreateViewing %s: %v", id, err)
		}
	}

	got, err := vs.GetViewing(ctx, "vw-early")
	if err != nil {
		t.Fatalf("GetViewing: %v", err)
	}
	if !got.Slot.Equal(slot) || got.Note != "ring twice" || got.PIN != "1234" {
		t.Errorf("unexpected viewing %+v", got)
	}

	list, err := vs.ListViewingsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListViewingsByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != "vw-early" {
		t.Errorf("expected viewings ordered by slot, got %+v", list)
	}

	if _, err := vs.GetViewing(ctx, "vw-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
