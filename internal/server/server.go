// Package server exposes the layout pipeline as an HTTP API.
//
// Endpoints are versioned under /v1. A graph is registered once with POST
// /v1/graphs, which assigns it an id and an interaction session; style and
// override interactions then address that id. Style endpoints never re-run
// layout - they only recompute the overlay.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/symbolscape/symbolscape/pkg/config"
	"github.com/symbolscape/symbolscape/pkg/pipeline"
)

// Server is the HTTP API server.
type Server struct {
	cfg      config.Config
	runner   *pipeline.Runner
	sessions *pipeline.SessionTable
	logger   *log.Logger
	http     *http.Server
}

// New creates a server around an existing runner.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	sessions, err := pipeline.NewSessionTable(runner, cfg.Server.SessionLimit)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/graphs", s.handleCreateGraph)
		r.Route("/graphs/{graphID}", func(r chi.Router) {
			r.Get("/layout", s.handleGetLayout)
			r.Get("/render", s.handleRender)
			r.Post("/style", s.handleStyle)
			r.Post("/overrides", s.handleOverrides)
			r.Delete("/", s.handleDeleteGraph)
		})
	})

	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request with the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
