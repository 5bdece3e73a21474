// Package api serves the hackathon registration HTTP endpoints.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/hackeurope/platform/internal/services/hackathon/otp"
	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
	"github.com/hackeurope/platform/internal/services/shared/httpmetrics"
	"github.com/hackeurope/platform/internal/services/shared/ratelimit"
	"go.uber.org/zap"
)

const (
	routeRequestCode = "/api/registration/request-code"
	routeVerify      = "/api/registration/verify"
	routeResend      = "/api/registration/resend"
	routeSession     = "/api/registration/session"
	routeRoster      = "/api/teams/{teamID}/roster"
	routeJoin        = "/join"
)

// Dependencies collects the collaborators the registration server needs.
type Dependencies struct {
	Store   storage.Store
	Codes   otp.Service
	Logger  *zap.Logger
	Metrics *httpmetrics.Metrics
	Limiter *ratelimit.Limiter
}

// Server hosts the registration flow and team roster endpoints.
type Server struct {
	cfg     Config
	otpCfg  otp.Config
	store   storage.Store
	codes   otp.Service
	log     *zap.Logger
	metrics *httpmetrics.Metrics
	limiter *ratelimit.Limiter

	clock     func() time.Time
	newTeamID func() (string, error)

	// verifying serializes submits per profile so a profile cannot race two
	// verifications against one pending challenge.
	verifyMu  sync.Mutex
	verifying map[string]struct{}
}

// New builds a registration server bound to its stores and passcode service.
func New(cfg Config, otpCfg otp.Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		otpCfg:    otpCfg,
		store:     deps.Store,
		codes:     deps.Codes,
		log:       log,
		metrics:   deps.Metrics,
		limiter:   deps.Limiter,
		clock:     time.Now,
		newTeamID: team.NewID,
		verifying: map[string]struct{}{},
	}
}

// RegisterRoutes registers registration HTTP endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if s == nil || mux == nil {
		return
	}

	mux.Handle(http.MethodPost+" "+routeRequestCode, s.public(routeRequestCode, http.HandlerFunc(s.handleRequestCode)))
	mux.Handle(http.MethodPost+" "+routeVerify, s.public(routeVerify, http.HandlerFunc(s.handleVerify)))
	mux.Handle(http.MethodPost+" "+routeResend, s.public(routeResend, http.HandlerFunc(s.handleResend)))
	mux.Handle(http.MethodGet+" "+routeSession, s.instrumented(routeSession, http.HandlerFunc(s.handleSession)))
	mux.Handle(http.MethodGet+" "+routeRoster, s.instrumented(routeRoster, http.HandlerFunc(s.handleRoster)))
	mux.Handle(http.MethodGet+" "+routeJoin, s.instrumented(routeJoin, http.HandlerFunc(s.handleJoin)))
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", httpmetrics.Handler())
}

// StartCleanup starts periodic expiry cleanup for abandoned challenges.
//
// This keeps half-finished registrations from accumulating without requiring
// a separate maintenance process.
func (s *Server) StartCleanup(ctx context.Context, interval time.Duration) {
	if s == nil || s.store == nil || interval <= 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.store.DeleteExpiredChallenges(ctx, s.clock().UTC())
				if err != nil {
					s.log.Warn("sweep expired challenges", zap.Error(err))
					continue
				}
				if deleted > 0 {
					s.log.Info("swept expired challenges", zap.Int64("deleted", deleted))
				}
			}
		}
	}()
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

func (s *Server) beginVerify(profileID string) bool {
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()
	if _, busy := s.verifying[profileID]; busy {
		return false
	}
	s.verifying[profileID] = struct{}{}
	return true
}

func (s *Server) endVerify(profileID string) {
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()
	delete(s.verifying, profileID)
}
