package types

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf clients exchange google.protobuf.Struct messages whose fields
// mirror the JSON bodies. Conversion goes through the JSON encoding so both
// wire formats share one set of field names.

// FromStruct decodes st into the JSON-tagged value dst.
func FromStruct(st *structpb.Struct, dst any) error {
	raw, err := st.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode struct: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	return nil
}

// ToStruct converts a JSON-tagged value into a Struct. Top-level slices are
// wrapped as {"items": [...]}.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	m, ok := generic.(map[string]any)
	if !ok {
		m = map[string]any{"items": generic}
	}
	return structpb.NewStruct(m)
}
