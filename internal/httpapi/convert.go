package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bedfast/access-service/internal/bedfast/types"
)

// decodeBody reads a JSON or protobuf request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if isProtobuf(r) {
		st, err := readStruct(r)
		if err != nil {
			return err
		}
		return types.FromStruct(st, dst)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decodeOrReject decodes the body and writes a 400 on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeBody(r, dst); err != nil {
		code, msg := "bad_json", "invalid JSON body"
		if isProtobuf(r) {
			code, msg = "bad_protobuf", "invalid protobuf body"
		}
		writeError(w, r, http.StatusBadRequest, code, msg)
		return false
	}
	return true
}
