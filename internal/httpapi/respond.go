package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/types"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResponse encodes v as protobuf or JSON depending on the request.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsProtobuf(r) {
		st, err := types.ToStruct(v)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{"internal_error", "unexpected server error"})
			return
		}
		writeProto(w, status, st)
		return
	}
	writeJSON(w, status, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeResponse(w, r, status, errorBody{Error: code, Message: msg})
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
	{service.ErrWindowInPast, http.StatusBadRequest, "window_in_past"},
	{service.ErrInvalidGuests, http.StatusBadRequest, "invalid_guests"},
	{service.ErrInvalidRating, http.StatusBadRequest, "invalid_rating"},
	{service.ErrGuestNameRequired, http.StatusBadRequest, "guest_name_required"},
	{service.ErrInvalidVerify, http.StatusBadRequest, "invalid_verify_request"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrPropertyNotFound, http.StatusNotFound, "property_not_found"},
	{service.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
	{service.ErrViewingNotFound, http.StatusNotFound, "viewing_not_found"},
	{service.ErrGuestPINNotFound, http.StatusNotFound, "guest_pin_not_found"},
	{service.ErrNotCancellable, http.StatusConflict, "not_cancellable"},
	{service.ErrFeedbackNotAllowed, http.StatusConflict, "feedback_not_allowed"},
	{service.ErrGuestAccessClosed, http.StatusConflict, "guest_access_closed"},
}

// writeServiceError maps service errors to statuses. Anything unmapped is
// logged and reported as a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, r, m.status, m.code, err.Error())
			return
		}
	}
	s.logger.Error(op+" failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal_error", "unexpected server error")
}
