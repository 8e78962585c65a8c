// Package api serves the halftone pipeline over HTTP.
//
// Routes:
//
//	POST /v1/halftone               multipart render, returns the artifact
//	GET  /v1/renders                recent render records
//	GET  /v1/renders/{id}           one render record
//	GET  /v1/renders/{id}/{format}  cached artifact of a render
//	GET  /healthz                   liveness and build info
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/store"
)

const (
	// DefaultMaxUploadBytes bounds the size of a multipart request.
	DefaultMaxUploadBytes = 32 << 20

	// DefaultRequestTimeout bounds the time spent on one request.
	DefaultRequestTimeout = 60 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server. Runner and Store are required.
type Config struct {
	Runner         *pipeline.Runner
	Store          store.Store
	Logger         *log.Logger
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	logger    *log.Logger
	maxUpload int64
	timeout   time.Duration
}

// New creates a server. Missing limits take their defaults and a nil logger
// discards output.
func New(cfg Config) *Server {
	s := &Server{
		runner:    cfg.Runner,
		store:     cfg.Store,
		logger:    cfg.Logger,
		maxUpload: cfg.MaxUploadBytes,
		timeout:   cfg.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/halftone", s.handleHalftone)
		r.Get("/renders", s.handleListRenders)
		r.Get("/renders/{id}", s.handleGetRender)
		r.Get("/renders/{id}/{format}", s.handleGetArtifact)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
