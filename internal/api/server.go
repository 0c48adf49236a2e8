// Package api implements the HTTP report service: upload form, report
// generation, PDF downloads, health, and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ppiankov/nesshub/internal/config"
	"github.com/ppiankov/nesshub/internal/store"
)

// Server is the HTTP report service.
type Server struct {
	cfg     *config.Config
	cache   *store.Cache
	metrics *Metrics
	logf    func(format string, args ...interface{})

	httpServer *http.Server
}

// NewServer wires the service from its configuration. logf may be nil.
func NewServer(cfg *config.Config, logf func(format string, args ...interface{})) *Server {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	s := &Server{
		cfg:     cfg,
		cache:   store.New(cfg.CacheCapacity),
		metrics: NewMetrics(),
		logf:    logf,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /reports/{file}", s.handleReportPDF)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var handler http.Handler = mux
	handler = BodySizeLimit(int64(cfg.MaxUploadMB) << 20)(handler)
	handler = RateLimitPerIP(DefaultRateLimitRequests, DefaultRateLimitWindow)(handler)
	handler = SecurityHeaders(handler)
	handler = Recover(logf)(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.RequestTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.RequestTimeoutSec) * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the service until the listener fails or Shutdown is
// called. A closed server returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.logf("listening on %s", s.cfg.ServerAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
