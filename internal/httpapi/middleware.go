package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bedfast/access-service/internal/auth"
)

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.String("from", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("dur", time.Since(start)),
			)
		})
	}
}

// requireAuth rejects requests without a valid identity-provider token and
// stores the caller's claims in the request context.
func requireAuth(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			claims, err := v.Validate(token)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// userID returns the authenticated caller. Routes behind requireAuth always
// have one.
func userID(r *http.Request) string {
	if c := auth.FromContext(r.Context()); c != nil {
		return c.UserID
	}
	return ""
}

func userEmail(r *http.Request) string {
	if c := auth.FromContext(r.Context()); c != nil {
		return c.Email
	}
	return ""
}
