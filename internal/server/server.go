// Package server exposes the engine over HTTP as JSON so a presentation
// layer can render charts without reimplementing any formula.
//
// Every endpoint is read-only and evaluates against the immutable material
// table the server was built with. Undefined engine results are encoded as
// JSON null next to a reason field.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/material"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the JSON API for one material table.
type Server struct {
	table    *material.Table
	defaults engine.DisplayParameters
	logger   zerolog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDefaults sets the parameters used when a request omits them.
func WithDefaults(p engine.DisplayParameters) Option {
	return func(s *Server) { s.defaults = p }
}

// New builds a Server over table.
func New(table *material.Table, opts ...Option) *Server {
	s := &Server{
		table:    table,
		defaults: engine.DefaultDisplayParameters(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.traceContext)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/materials", s.handleMaterials)
		r.Get("/materials/{name}", s.handleMaterial)
		r.Get("/report", s.handleReport)
		r.Get("/mac-curve", s.handleMACCurve)
		r.Get("/insights", s.handleInsights)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info().
		Str("component", "server").
		Str("operation", "serve").
		Str("addr", ln.Addr().String()).
		Int("materials", s.table.Len()).
		Msg("API server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info().
		Str("component", "server").
		Str("operation", "shutdown").
		Msg("API server stopped")
	return nil
}
