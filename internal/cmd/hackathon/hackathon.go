// Package hackathon parses hackathon service flags and launches the service.
package hackathon

import (
	"context"
	"flag"

	entrypoint "github.com/hackeurope/platform/internal/platform/cmd"
	server "github.com/hackeurope/platform/internal/services/hackathon/app"
)

// Config holds hackathon command configuration.
type Config struct {
	HTTPAddr string `env:"HACKEUROPE_HACKATHON_HTTP_ADDR" envDefault:"localhost:8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The hackathon HTTP listen address")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the hackathon registration service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceHackathon, func(context.Context) error {
		return server.Run(ctx, cfg.HTTPAddr)
	})
}
