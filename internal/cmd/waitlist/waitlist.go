// Package waitlist parses waitlist service flags and launches the service.
package waitlist

import (
	"context"
	"flag"

	entrypoint "github.com/hackeurope/platform/internal/platform/cmd"
	server "github.com/hackeurope/platform/internal/services/waitlist/app"
)

// Config holds waitlist command configuration.
type Config struct {
	HTTPAddr string `env:"HACKEUROPE_WAITLIST_HTTP_ADDR" envDefault:"localhost:8081"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The waitlist HTTP listen address")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the waitlist service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWaitlist, func(context.Context) error {
		return server.Run(ctx, cfg.HTTPAddr)
	})
}
