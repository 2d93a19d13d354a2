package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bedfast/access-service/internal/bedfast/types"
)

// ── Access ───────────────────────────────────────────────────────────────────

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	resp, err := s.evaluator.Evaluate(req)
	if err != nil {
		s.writeServiceError(w, r, "evaluate", err)
		return
	}
	writeResponse(w, r, http.StatusOK, resp)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	resp, err := s.guestAccess.Verify(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "verify", err)
		return
	}
	// A denied PIN is a normal answer, not a request error.
	writeResponse(w, r, http.StatusOK, resp)
}

// ── Properties ───────────────────────────────────────────────────────────────

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list properties", err)
		return
	}
	writeResponse(w, r, http.StatusOK, props)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "get property", err)
		return
	}
	writeResponse(w, r, http.StatusOK, p)
}

// ── Bookings ─────────────────────────────────────────────────────────────────

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req types.CreateBookingRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	if req.Email == "" {
		req.Email = userEmail(r)
	}
	b, err := s.bookings.Create(r.Context(), userID(r), req)
	if err != nil {
		s.writeServiceError(w, r, "create booking", err)
		return
	}
	writeResponse(w, r, http.StatusCreated, b)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := s.bookings.ListForUser(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, "list bookings", err)
		return
	}
	writeResponse(w, r, http.StatusOK, list)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.bookings.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "get booking", err)
		return
	}
	writeResponse(w, r, http.StatusOK, b)
}

func (s *Server) handleBookingCredential(w http.ResponseWriter, r *http.Request) {
	offline, ok := offlineParam(w, r)
	if !ok {
		return
	}
	c, err := s.bookings.Credential(r.Context(), userID(r), chi.URLParam(r, "id"), offline)
	if err != nil {
		s.writeServiceError(w, r, "booking credential", err)
		return
	}
	writeResponse(w, r, http.StatusOK, c)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.bookings.Cancel(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "cancel booking", err)
		return
	}
	writeResponse(w, r, http.StatusOK, b)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	b, err := s.bookings.Feedback(r.Context(), userID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeServiceError(w, r, "feedback", err)
		return
	}
	writeResponse(w, r, http.StatusOK, b)
}

// ── Guest PINs ───────────────────────────────────────────────────────────────

func (s *Server) handleIssueGuestPIN(w http.ResponseWriter, r *http.Request) {
	var req types.IssueGuestPINRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	gp, err := s.guestAccess.Issue(r.Context(), userID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeServiceError(w, r, "issue guest pin", err)
		return
	}
	writeResponse(w, r, http.StatusCreated, gp)
}

func (s *Server) handleListGuestPINs(w http.ResponseWriter, r *http.Request) {
	list, err := s.guestAccess.List(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "list guest pins", err)
		return
	}
	writeResponse(w, r, http.StatusOK, list)
}

func (s *Server) handleRevokeGuestPIN(w http.ResponseWriter, r *http.Request) {
	err := s.guestAccess.Revoke(r.Context(), userID(r), chi.URLParam(r, "id"), chi.URLParam(r, "pinID"))
	if err != nil {
		s.writeServiceError(w, r, "revoke guest pin", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Viewings ─────────────────────────────────────────────────────────────────

func (s *Server) handleScheduleViewing(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleViewingRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	v, err := s.viewings.Schedule(r.Context(), userID(r), req)
	if err != nil {
		s.writeServiceError(w, r, "schedule viewing", err)
		return
	}
	writeResponse(w, r, http.StatusCreated, v)
}

func (s *Server) handleListViewings(w http.ResponseWriter, r *http.Request) {
	list, err := s.viewings.ListForUser(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, "list viewings", err)
		return
	}
	writeResponse(w, r, http.StatusOK, list)
}

func (s *Server) handleGetViewing(w http.ResponseWriter, r *http.Request) {
	v, err := s.viewings.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "get viewing", err)
		return
	}
	writeResponse(w, r, http.StatusOK, v)
}

func (s *Server) handleViewingCredential(w http.ResponseWriter, r *http.Request) {
	offline, ok := offlineParam(w, r)
	if !ok {
		return
	}
	c, err := s.viewings.Credential(r.Context(), userID(r), chi.URLParam(r, "id"), offline)
	if err != nil {
		s.writeServiceError(w, r, "viewing credential", err)
		return
	}
	writeResponse(w, r, http.StatusOK, c)
}

func offlineParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	v := r.URL.Query().Get("offline")
	if v == "" {
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_offline", "offline must be a boolean")
		return false, false
	}
	return b, true
}
