package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/auth"
	"github.com/bedfast/access-service/internal/bedfast/service"
)

type Dependencies struct {
	Logger      *zap.Logger
	Addr        string
	CORSOrigins []string
	Verifier    *auth.Verifier

	Evaluator   *service.WindowEvaluator
	Catalog     *service.Catalog
	Bookings    *service.BookingService
	GuestAccess *service.GuestAccessService
	Viewings    *service.ViewingService
}

type Server struct {
	httpServer  *http.Server
	logger      *zap.Logger
	verifier    *auth.Verifier
	evaluator   *service.WindowEvaluator
	catalog     *service.Catalog
	bookings    *service.BookingService
	guestAccess *service.GuestAccessService
	viewings    *service.ViewingService
}

func NewServer(d Dependencies) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger:      logger.Named("http"),
		verifier:    d.Verifier,
		evaluator:   d.Evaluator,
		catalog:     d.Catalog,
		bookings:    d.Bookings,
		guestAccess: d.GuestAccess,
		viewings:    d.Viewings,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/access/evaluate", s.handleEvaluate)
		r.Post("/locks/verify", s.handleVerify)

		r.Get("/properties", s.handleListProperties)
		r.Get("/properties/{id}", s.handleGetProperty)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(s.verifier))

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", s.handleCreateBooking)
				r.Get("/", s.handleListBookings)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetBooking)
					r.Get("/credential", s.handleBookingCredential)
					r.Post("/cancel", s.handleCancelBooking)
					r.Post("/feedback", s.handleFeedback)
					r.Post("/guest-pins", s.handleIssueGuestPIN)
					r.Get("/guest-pins", s.handleListGuestPINs)
					r.Delete("/guest-pins/{pinID}", s.handleRevokeGuestPIN)
				})
			})

			r.Route("/viewings", func(r chi.Router) {
				r.Post("/", s.handleScheduleViewing)
				r.Get("/", s.handleListViewings)
				r.Get("/{id}", s.handleGetViewing)
				r.Get("/{id}/credential", s.handleViewingCredential)
			})
		})
	})

	var handler http.Handler = r
	if len(d.CORSOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(d.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Accept"}),
		)(handler)
	}

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, map[string]any{
		"ok":          true,
		"server_time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
