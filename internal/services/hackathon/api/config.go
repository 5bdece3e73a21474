package api

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the HTTP-facing registration settings.
type Config struct {
	// DomainSuffix is the email domain participants must register with.
	DomainSuffix string `env:"HACKEUROPE_ALLOWED_EMAIL_DOMAIN" envDefault:"ed.ac.uk"`
	// InviteBaseURL is the public URL invite links point at. The team id is
	// appended as a query parameter.
	InviteBaseURL string `env:"HACKEUROPE_INVITE_BASE_URL" envDefault:"http://localhost:8080/join"`
}

// LoadConfigFromEnv loads registration settings and applies defensive defaults.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if strings.TrimSpace(cfg.DomainSuffix) == "" {
		cfg.DomainSuffix = "ed.ac.uk"
	}
	if strings.TrimSpace(cfg.InviteBaseURL) == "" {
		cfg.InviteBaseURL = "http://localhost:8080/join"
	}
	return cfg
}
