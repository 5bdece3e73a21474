package otp

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls passcode format, simulated latency, and flow timing.
type Config struct {
	CodeLength     int           `env:"HACKEUROPE_OTP_CODE_LENGTH"     envDefault:"6"`
	IssueDelay     time.Duration `env:"HACKEUROPE_OTP_ISSUE_DELAY"     envDefault:"600ms"`
	VerifyDelay    time.Duration `env:"HACKEUROPE_OTP_VERIFY_DELAY"    envDefault:"900ms"`
	ChallengeTTL   time.Duration `env:"HACKEUROPE_OTP_CHALLENGE_TTL"   envDefault:"10m"`
	ResendCooldown time.Duration `env:"HACKEUROPE_OTP_RESEND_COOLDOWN" envDefault:"30s"`
}

// LoadConfigFromEnv loads passcode configuration and applies defensive defaults.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	if cfg.IssueDelay < 0 {
		cfg.IssueDelay = 0
	}
	if cfg.VerifyDelay < 0 {
		cfg.VerifyDelay = 0
	}
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 10 * time.Minute
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = 30 * time.Second
	}
	return cfg
}
