package api

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the hosted-service settings the waitlist surface publishes.
type Config struct {
	// HostedURL is the public base URL of the hosted database service.
	HostedURL string `env:"HACKEUROPE_WAITLIST_HOSTED_URL"`
	// HostedAnonKey is the public anon key browsers use against the hosted
	// service. It is published by the config endpoint, never a secret.
	HostedAnonKey string `env:"HACKEUROPE_WAITLIST_HOSTED_ANON_KEY"`
}

// LoadConfigFromEnv loads hosted-service settings. Both values default to
// empty, which reports the waitlist as unconfigured.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	cfg.HostedURL = strings.TrimSpace(cfg.HostedURL)
	cfg.HostedAnonKey = strings.TrimSpace(cfg.HostedAnonKey)
	return cfg
}

// Configured reports whether the hosted-service settings are complete.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.HostedURL) != "" && strings.TrimSpace(c.HostedAnonKey) != ""
}
