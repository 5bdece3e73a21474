// Package flow models the hackathon registration flow.
//
// The flow is a three-state machine per browser profile: a profile enters an
// email, awaits a one-time passcode, and lands in a terminal verified state.
// Resending is not a separate state, it is the awaiting state plus an active
// cooldown deadline.
package flow

import (
	"strconv"
	"strings"

	apperrors "github.com/hackeurope/platform/internal/platform/errors"
)

// State tracks where a profile sits in the registration flow.
type State string

const (
	// StateEnteringEmail is the initial state before any code is issued.
	StateEnteringEmail State = "entering_email"
	// StateAwaitingOTP means a code was issued and not yet verified.
	StateAwaitingOTP State = "awaiting_otp"
	// StateVerified is terminal: the profile holds a registration record.
	StateVerified State = "verified"
)

var (
	// ErrInvalidEmail indicates an email without a plausible local part and domain.
	ErrInvalidEmail = apperrors.New(apperrors.CodeEmailInvalid, "email must have a local part and a domain")
	// ErrDomainNotAllowed matches domain suffix failures by code. Returned
	// errors carry the configured suffix as metadata.
	ErrDomainNotAllowed = apperrors.New(apperrors.CodeEmailDomainNotAllowed, "email domain is not allowed")
	// ErrCodeFormat matches passcode format failures by code.
	ErrCodeFormat = apperrors.New(apperrors.CodeOTPFormatInvalid, "code must be exactly the configured number of digits")
	// ErrCooldownActive matches active resend cooldowns by code.
	ErrCooldownActive = apperrors.New(apperrors.CodeResendCooldownActive, "resend cooldown active")
	// ErrAlreadyVerified indicates the profile already completed the flow.
	ErrAlreadyVerified = apperrors.New(apperrors.CodeAlreadyVerified, "profile is already verified")
	// ErrChallengeMissing indicates a verify or resend without a pending code.
	ErrChallengeMissing = apperrors.New(apperrors.CodeChallengeMissing, "no verification is pending")
	// ErrChallengeExpired indicates the pending code outlived its TTL.
	ErrChallengeExpired = apperrors.New(apperrors.CodeChallengeExpired, "verification code expired")
	// ErrVerifyInProgress indicates a concurrent verify on the same profile.
	ErrVerifyInProgress = apperrors.New(apperrors.CodeVerifyInProgress, "verification already in progress")
)

// normalizeEmail lowercases and trims raw input without validating it.
func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateEmail normalizes raw and enforces the required domain suffix.
// The suffix matches on label boundaries, so "x@mail.ed.ac.uk" passes for
// suffix "ed.ac.uk" while "x@fred.ac.uk" does not. An empty suffix admits
// any domain.
func ValidateEmail(raw, domainSuffix string) (string, error) {
	email := normalizeEmail(raw)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", ErrInvalidEmail
	}

	suffix := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domainSuffix)), "@")
	if suffix == "" {
		return email, nil
	}

	domain := email[at+1:]
	if domain != suffix && !strings.HasSuffix(domain, "."+suffix) {
		return "", apperrors.WithMetadata(apperrors.CodeEmailDomainNotAllowed,
			"email domain is not allowed", map[string]string{"Domain": suffix})
	}
	return email, nil
}

// ValidateCode checks that code is exactly length digits. Format failures are
// local: callers must not spend a verification attempt on them.
func ValidateCode(code string, length int) error {
	if len(code) != length {
		return codeFormatError(length)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return codeFormatError(length)
		}
	}
	return nil
}

// CooldownError reports an active resend cooldown with the remaining seconds.
func CooldownError(remainingSeconds int) error {
	return apperrors.WithMetadata(apperrors.CodeResendCooldownActive,
		"resend cooldown active", map[string]string{"Seconds": strconv.Itoa(remainingSeconds)})
}

func codeFormatError(length int) error {
	return apperrors.WithMetadata(apperrors.CodeOTPFormatInvalid,
		"code must be exactly the configured number of digits",
		map[string]string{"Length": strconv.Itoa(length)})
}
