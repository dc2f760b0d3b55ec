package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/logging"
	"github.com/freightdesk/presence/internal/metrics"
	"github.com/freightdesk/presence/internal/server/auth"
)

type ctxKey string

const carrierIDKey ctxKey = "carrierID"

// CarrierIDFromContext returns the authenticated carrier id set by the
// authenticator middleware, or "" when the request was not authenticated.
func CarrierIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(carrierIDKey).(string)
	return id
}

// authenticator validates the Bearer token and stores the carrier id in the
// request context. Requests without a valid token are rejected with 401.
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		carrierID, err := auth.CarrierIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), carrierIDKey, carrierID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// requestLogger assigns a request id and logs method, path, status and
// duration for every call.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info(r.Context(), "http request",
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// recordMetrics observes request counts and latency per method/path/status.
func recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		metrics.ObserveHTTPRequest(r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}
