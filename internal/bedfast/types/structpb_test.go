package types

import (
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestFromStruct_TypedRequest(t *testing.T) {
	st, err := structpb.NewStruct(map[string]any{
		"property_id": "prop-1",
		"check_in":    "2026-05-10T15:00:00Z",
		"check_out":   "2026-05-15T11:00:00Z",
		"guests":      3,
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	var req CreateBookingRequest
	if err := FromStruct(st, &req); err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	if req.PropertyID != "prop-1" || req.Guests != 3 {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestToStruct_OmitsEmptyAndWrapsSlices(t *testing.T) {
	st, err := ToStruct(EvaluateResponse{Status: "upcoming", ServerTime: "t"})
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}
	if _, ok := st.GetFields()["remaining"]; ok {
		t.Error("expected nil remaining to be omitted")
	}
	if st.GetFields()["reveal"].GetBoolValue() {
		t.Error("expected reveal=false")
	}

	list, err := ToStruct([]PropertyView{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("ToStruct: %v", err)
	}
	if n := len(list.GetFields()["items"].GetListValue().GetValues()); n != 2 {
		t.Errorf("expected 2 wrapped items, got %d", n)
	}
}
