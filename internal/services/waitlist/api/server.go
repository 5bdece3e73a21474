// Package api serves the waitlist HTTP endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hackeurope/platform/internal/services/shared/httpmetrics"
	"github.com/hackeurope/platform/internal/services/shared/ratelimit"
	"github.com/hackeurope/platform/internal/services/waitlist/cache"
	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"go.uber.org/zap"
)

const (
	routeConfig = "/api/config"
	routeCount  = "/api/waitlist/count"
	routeJoin   = "/api/waitlist/join"
)

// Dependencies collects the collaborators the waitlist server needs.
type Dependencies struct {
	Store   storage.Store
	Counts  *cache.Counts
	Logger  *zap.Logger
	Metrics *httpmetrics.Metrics
	Limiter *ratelimit.Limiter
}

// Server hosts the waitlist config, count, and join endpoints.
type Server struct {
	cfg     Config
	store   storage.Store
	counts  *cache.Counts
	log     *zap.Logger
	metrics *httpmetrics.Metrics
	limiter *ratelimit.Limiter

	clock       func() time.Time
	newMemberID func() string
}

// New builds a waitlist server bound to its store and optional count cache.
func New(cfg Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		counts:      deps.Counts,
		log:         log,
		metrics:     deps.Metrics,
		limiter:     deps.Limiter,
		clock:       time.Now,
		newMemberID: uuid.NewString,
	}
	s.checkAnonKey()
	return s
}

// checkAnonKey warns about a suspicious anon key once at startup. The config
// endpoint publishes the key verbatim either way.
func (s *Server) checkAnonKey() {
	if s.cfg.HostedAnonKey == "" {
		return
	}
	info, err := inspectAnonKey(s.cfg.HostedAnonKey)
	if err != nil {
		s.log.Warn("hosted anon key looks malformed", zap.Error(err))
		return
	}
	if info.Role != "anon" {
		s.log.Warn("hosted key role is not anon", zap.String("role", info.Role))
	}
	if !info.ExpiresAt.IsZero() && !info.ExpiresAt.After(s.clock().UTC()) {
		s.log.Warn("hosted anon key is expired", zap.Time("expires_at", info.ExpiresAt))
	}
}

// RegisterRoutes registers waitlist HTTP endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if s == nil || mux == nil {
		return
	}

	mux.Handle(http.MethodGet+" "+routeConfig, s.instrumented(routeConfig, http.HandlerFunc(s.handleConfig)))
	mux.Handle(http.MethodGet+" "+routeCount, s.instrumented(routeCount, http.HandlerFunc(s.handleCount)))
	mux.Handle(http.MethodPost+" "+routeJoin, s.public(routeJoin, http.HandlerFunc(s.handleJoin)))
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", httpmetrics.Handler())
}

// public wraps a mutating endpoint with rate limiting and instrumentation.
func (s *Server) public(route string, next http.Handler) http.Handler {
	return s.instrumented(route, ratelimit.Middleware(s.limiter, s.log, next))
}

func (s *Server) instrumented(route string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return s.metrics.Wrap(route, next)
}
