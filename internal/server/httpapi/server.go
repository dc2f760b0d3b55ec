// Package httpapi exposes the presence core over HTTP: the single position
// report write endpoint, the active-list and proximity read endpoints, and
// the status half of the online/offline reconciliation protocol.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/freightdesk/presence/internal/logging"
	"github.com/freightdesk/presence/internal/metrics"
	"github.com/freightdesk/presence/internal/server/config"
	"github.com/freightdesk/presence/internal/server/presence"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	address          string
	service          *presence.Service
	logger           logging.Logger
	jwtSecret        []byte
	defaultFreshness time.Duration
	defaultRadiusKm  float64
	pinger           Pinger
}

func NewServer(cfg *config.Config, service *presence.Service, logger logging.Logger, pinger Pinger) *Server {
	return &Server{
		address:          cfg.EndpointAddr,
		service:          service,
		logger:           logger.With("module", "http_server"),
		jwtSecret:        []byte(cfg.SecretKey),
		defaultFreshness: cfg.DefaultFreshness,
		defaultRadiusKm:  cfg.DefaultRadiusKm,
		pinger:           pinger,
	}
}

// Routes builds the chi router: public read endpoints, authenticated
// carrier endpoints, health and metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(requestLogger(s.logger))
	r.Use(recordMetrics)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1/presence", func(r chi.Router) {
		r.Get("/active", s.handleListActive)
		r.Get("/nearby", s.handleFindNearby)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticator)
			r.Post("/report", s.handleReport)
			r.Get("/status", s.handleGetStatus)
			r.Put("/status", s.handleSetStatus)
		})
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
