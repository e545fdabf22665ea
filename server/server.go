// Package server exposes the graph service over HTTP.
package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/ontograph/graph"
)

// Config holds the server settings.
type Config struct {
	Port              int
	AllowedOrigins    []string
	RequestsPerSecond float64 // zero disables rate limiting
	Burst             int
	ShutdownTimeout   time.Duration
}

// OntographServer serves structural queries and record mutations.
type OntographServer struct {
	svc     *graph.Service
	cfg     Config
	logger  *zap.SugaredLogger
	handler http.Handler

	// swapped by config reloads while requests are in flight
	limiter atomic.Pointer[rate.Limiter]
	origins atomic.Pointer[[]string]
}

// New creates a server for svc.
func New(svc *graph.Service, cfg Config, log *zap.SugaredLogger) *OntographServer {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &OntographServer{
		svc:    svc,
		cfg:    cfg,
		logger: log.Named("server"),
	}
	s.SetRateLimit(cfg.RequestsPerSecond, cfg.Burst)
	s.SetAllowedOrigins(cfg.AllowedOrigins)
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *OntographServer) Handler() http.Handler {
	return s.handler
}

// SetRateLimit replaces the request limiter. A non-positive rate removes it.
func (s *OntographServer) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		s.limiter.Store(nil)
		return
	}
	if burst < 1 {
		burst = 1
	}
	s.limiter.Store(rate.NewLimiter(rate.Limit(rps), burst))
	s.logger.Infow("Rate limit set", "requests_per_second", rps, "burst", burst)
}

// SetAllowedOrigins replaces the CORS origin prefixes.
func (s *OntographServer) SetAllowedOrigins(origins []string) {
	cp := append([]string(nil), origins...)
	s.origins.Store(&cp)
}
