// Package server exposes the mining pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build info
//	GET  /metrics        Prometheus metrics
//	POST /v1/mine        mine an in-request database, returns a run
//	GET  /v1/runs/{id}   fetch a stored run
//	POST /v1/tree        render the prefix tree of an in-request database
//
// Requests carry transactions inline; the server never reads files named by
// a client.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sppgrowth/pkg/pipeline"
	"github.com/matzehuels/sppgrowth/pkg/store"
)

// Defaults applied by [New].
const (
	DefaultMaxBodyBytes   = 32 << 20
	DefaultRequestTimeout = 2 * time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Options configures a Server. Runner is required.
type Options struct {
	Runner *pipeline.Runner

	// Store persists runs. Defaults to an in-memory store.
	Store store.Store

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	Logger         *log.Logger
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	gatherer prometheus.Gatherer
	logger   *log.Logger
	maxBody  int64
	timeout  time.Duration
}

// New creates a server, filling in defaults for unset options.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		store:    opts.Store,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
		timeout:  opts.RequestTimeout,
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/mine", s.handleMine)
		r.Post("/tree", s.handleTree)
		r.Get("/runs/{id}", s.handleRun)
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

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the runner's cache and the store.
func (s *Server) Close(ctx context.Context) error {
	return errors.Join(s.runner.Close(), s.store.Close(ctx))
}
