// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Registration errors
	CodeMalformedRequest      Code = "MALFORMED_REQUEST"
	CodeEmailInvalid          Code = "EMAIL_INVALID"
	CodeEmailDomainNotAllowed Code = "EMAIL_DOMAIN_NOT_ALLOWED"
	CodeOTPFormatInvalid      Code = "OTP_FORMAT_INVALID"
	CodeOTPRejected           Code = "OTP_REJECTED"
	CodeChallengeMissing      Code = "CHALLENGE_MISSING"
	CodeChallengeExpired      Code = "CHALLENGE_EXPIRED"
	CodeResendCooldownActive  Code = "RESEND_COOLDOWN_ACTIVE"
	CodeAlreadyVerified       Code = "ALREADY_VERIFIED"
	CodeVerifyInProgress      Code = "VERIFY_IN_PROGRESS"

	// Team errors
	CodeTeamIDInvalid      Code = "TEAM_ID_INVALID"
	CodeMemberEmailEmpty   Code = "MEMBER_EMAIL_EMPTY"
	CodeRosterAccessDenied Code = "ROSTER_ACCESS_DENIED"

	// Waitlist errors
	CodeWaitlistAlreadyJoined Code = "WAITLIST_ALREADY_JOINED"
	CodeWaitlistUnavailable   Code = "WAITLIST_UNAVAILABLE"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Transport errors
	CodeRateLimited Code = "RATE_LIMITED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeMalformedRequest,
		CodeEmailInvalid,
		CodeEmailDomainNotAllowed,
		CodeOTPFormatInvalid,
		CodeOTPRejected,
		CodeTeamIDInvalid,
		CodeMemberEmailEmpty:
		return http.StatusBadRequest

	// Conflict - state doesn't allow the operation
	case CodeChallengeMissing,
		CodeChallengeExpired,
		CodeAlreadyVerified,
		CodeVerifyInProgress,
		CodeAlreadyExists,
		CodeWaitlistAlreadyJoined:
		return http.StatusConflict

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	case CodeRosterAccessDenied:
		return http.StatusForbidden

	// Too many requests - cooldowns and limiters
	case CodeResendCooldownActive,
		CodeRateLimited:
		return http.StatusTooManyRequests

	case CodeWaitlistUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
