// Package otp issues and verifies one-time passcodes for registration.
//
// The shipped implementation is a simulation: nothing is delivered anywhere,
// and any well-formed code verifies after a fixed artificial delay. The
// Service interface keeps the registration flow ignorant of that, so a real
// sender can slot in without touching callers.
package otp

import (
	"context"
	"time"
)

// Service is the narrow interface the registration flow depends on.
type Service interface {
	// RequestCode issues a passcode for email and arranges delivery.
	RequestCode(ctx context.Context, email string) error
	// VerifyCode reports whether code is the current passcode for email.
	VerifyCode(ctx context.Context, email, code string) (bool, error)
}

// Simulator implements Service with artificial latency and no delivery.
type Simulator struct {
	issueDelay  time.Duration
	verifyDelay time.Duration
}

var _ Service = (*Simulator)(nil)

// NewSimulator builds a simulator with the configured delays.
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		issueDelay:  cfg.IssueDelay,
		verifyDelay: cfg.VerifyDelay,
	}
}

// RequestCode pretends to deliver a passcode after the configured delay.
func (s *Simulator) RequestCode(ctx context.Context, email string) error {
	return wait(ctx, s.issueDelay)
}

// VerifyCode accepts every code after the configured delay. Callers check
// the code format first so a malformed code never reaches this point.
func (s *Simulator) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	if err := wait(ctx, s.verifyDelay); err != nil {
		return false, err
	}
	return true, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
