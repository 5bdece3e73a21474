// Package app wires the waitlist service runtime and HTTP lifecycle.
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
	"github.com/hackeurope/platform/internal/services/shared/httpmetrics"
	"github.com/hackeurope/platform/internal/services/shared/ratelimit"
	"github.com/hackeurope/platform/internal/services/waitlist/api"
	"github.com/hackeurope/platform/internal/services/waitlist/cache"
	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	wlpostgres "github.com/hackeurope/platform/internal/services/waitlist/storage/postgres"
	wlsqlite "github.com/hackeurope/platform/internal/services/waitlist/storage/sqlite"
	"go.uber.org/zap"
)

type serverEnv struct {
	// DatabaseURL selects the hosted PostgreSQL store when set. Without it
	// the service falls back to a local SQLite file at DBPath.
	DatabaseURL    string        `env:"HACKEUROPE_WAITLIST_DATABASE_URL"`
	DBPath         string        `env:"HACKEUROPE_WAITLIST_DB_PATH"`
	RedisAddr      string        `env:"HACKEUROPE_WAITLIST_REDIS_ADDR"`
	RedisPassword  string        `env:"HACKEUROPE_WAITLIST_REDIS_PASSWORD"`
	RedisDB        int           `env:"HACKEUROPE_WAITLIST_REDIS_DB" envDefault:"0"`
	CountCacheTTL  time.Duration `env:"HACKEUROPE_WAITLIST_COUNT_CACHE_TTL" envDefault:"30s"`
	LogLevel       string        `env:"HACKEUROPE_LOG_LEVEL" envDefault:"info"`
	RateLimitRPS   float64       `env:"HACKEUROPE_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"HACKEUROPE_RATE_LIMIT_BURST" envDefault:"10"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "waitlist.db")
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CountCacheTTL <= 0 {
		cfg.CountCacheTTL = 30 * time.Second
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 10
	}
	return cfg
}

// Server hosts the waitlist HTTP API and storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      storage.Store
	counts     *cache.Counts
	log        *zap.Logger
}

// New creates a configured waitlist server for the provided address.
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
	log, err := logger.New("waitlist", srvEnv.LogLevel)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := openWaitlistStore(context.Background(), srvEnv, log)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	// The count cache is optional; a missing or unreachable Redis just means
	// every count request hits the store.
	var counts *cache.Counts
	if addr := strings.TrimSpace(srvEnv.RedisAddr); addr != "" {
		counts, err = cache.NewCounts(addr, srvEnv.RedisPassword, srvEnv.RedisDB, srvEnv.CountCacheTTL, log)
		if err != nil {
			log.Warn("count cache unavailable, serving without it", zap.Error(err))
			counts = nil
		}
	}

	apiServer := api.New(api.LoadConfigFromEnv(), api.Dependencies{
		Store:   store,
		Counts:  counts,
		Logger:  log,
		Metrics: httpmetrics.New("waitlist"),
		Limiter: ratelimit.New(srvEnv.RateLimitRPS, srvEnv.RateLimitBurst),
	})

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           otelplatform.Propagate(mux),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		counts: counts,
		log:    log,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a waitlist server until context cancellation.
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

	s.log.Info("waitlist server listening", zap.String("addr", s.Addr()))
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

// Close releases waitlist server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.counts != nil {
		if err := s.counts.Close(); err != nil {
			s.log.Warn("close count cache", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("close waitlist store", zap.Error(err))
		}
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

func openWaitlistStore(ctx context.Context, srvEnv serverEnv, log *zap.Logger) (storage.Store, error) {
	if dsn := strings.TrimSpace(srvEnv.DatabaseURL); dsn != "" {
		store, err := wlpostgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open waitlist postgres store: %w", err)
		}
		log.Info("waitlist store ready", zap.String("backend", "postgres"))
		return store, nil
	}

	path := srvEnv.DBPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := wlsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open waitlist sqlite store: %w", err)
	}
	log.Info("waitlist store ready", zap.String("backend", "sqlite"), zap.String("path", path))
	return store, nil
}
