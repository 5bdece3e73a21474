// Package app wires the hackathon service runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hackeurope/platform/internal/platform/config"
	"github.com/hackeurope/platform/internal/platform/logger"
	otelplatform "github.com/hackeurope/platform/internal/platform/otel"
	"github.com/hackeurope/platform/internal/platform/timeouts"
	"github.com/hackeurope/platform/internal/services/hackathon/api"
	"github.com/hackeurope/platform/internal/services/hackathon/otp"
	hacksqlite "github.com/hackeurope/platform/internal/services/hackathon/storage/sqlite"
	"github.com/hackeurope/platform/internal/services/hackathon/web"
	"github.com/hackeurope/platform/internal/services/shared/httpmetrics"
	"github.com/hackeurope/platform/internal/services/shared/ratelimit"
	"go.uber.org/zap"
)

type serverEnv struct {
	DBPath         string        `env:"HACKEUROPE_HACKATHON_DB_PATH"`
	LogLevel       string        `env:"HACKEUROPE_LOG_LEVEL" envDefault:"info"`
	RateLimitRPS   float64       `env:"HACKEUROPE_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"HACKEUROPE_RATE_LIMIT_BURST" envDefault:"10"`
	SweepInterval  time.Duration `env:"HACKEUROPE_CHALLENGE_SWEEP_INTERVAL" envDefault:"1m"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "hackathon.db")
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 10
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return cfg
}

// Server hosts the hackathon HTTP API and storage lifecycle.
type Server struct {
	listener      net.Listener
	httpServer    *http.Server
	api           *api.Server
	store         *hacksqlite.Store
	log           *zap.Logger
	sweepInterval time.Duration
}

// New creates a configured hackathon server for the provided address.
func New(httpAddr string) (*Server, error) {
	httpAddr = strings.TrimSpace(httpAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	listener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}

	srvEnv := loadServerEnv()
	log, err := logger.New("hackathon", srvEnv.LogLevel)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := openHackathonStore(srvEnv.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	apiCfg := api.LoadConfigFromEnv()
	otpCfg := otp.LoadConfigFromEnv()
	apiServer := api.New(apiCfg, otpCfg, api.Dependencies{
		Store:   store,
		Codes:   otp.NewSimulator(otpCfg),
		Logger:  log,
		Metrics: httpmetrics.New("hackathon"),
		Limiter: ratelimit.New(srvEnv.RateLimitRPS, srvEnv.RateLimitBurst),
	})

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)
	web.New(store, apiCfg.InviteBaseURL, log).RegisterRoutes(mux)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           otelplatform.Propagate(mux),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		api:           apiServer,
		store:         store,
		log:           log,
		sweepInterval: srvEnv.SweepInterval,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a hackathon server until context cancellation.
func Run(ctx context.Context, httpAddr string) error {
	server, err := New(httpAddr)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.Serve(ctx)
}

// Serve runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests are
// drained before hard close.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.api.StartCleanup(serverCtx, s.sweepInterval)

	s.log.Info("hackathon server listening", zap.String("addr", s.Addr()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancelShutdown()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases hackathon server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("close hackathon store", zap.Error(err))
		}
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

func openHackathonStore(path string) (*hacksqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := hacksqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hackathon sqlite store: %w", err)
	}
	return store, nil
}
