// Package server exposes the pipeline trigger over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/ratelimit"
	"github.com/spiffcs/sonar/internal/sonar"
	"github.com/spiffcs/sonar/internal/store"
)

// Server routes trigger requests to the pipeline.
type Server struct {
	runner  sonar.Runner
	limiter ratelimit.Limiter
	secret  []byte
	limit   int
	window  time.Duration
	pingers []store.Pinger
	now     func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithRateLimit sets the per-caller trigger quota.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.limit = limit
		s.window = window
	}
}

// WithHealthCheck adds a dependency pinged by /healthz.
func WithHealthCheck(p store.Pinger) Option {
	return func(s *Server) { s.pingers = append(s.pingers, p) }
}

// WithClock overrides the time source used for retry hints.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server. secret verifies HS256 bearer tokens.
func New(runner sonar.Runner, limiter ratelimit.Limiter, secret []byte, opts ...Option) (*Server, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret not provided. Set the SONAR_JWT_SECRET environment variable")
	}
	s := &Server{
		runner:  runner,
		limiter: limiter,
		secret:  secret,
		limit:   constants.TriggerRateLimit,
		window:  constants.TriggerRateWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/api/sonar/search", s.handleSearch)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
