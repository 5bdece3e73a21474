package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeMalformedRequest      = "MALFORMED_REQUEST"
	CodeEmailInvalid          = "EMAIL_INVALID"
	CodeEmailDomainNotAllowed = "EMAIL_DOMAIN_NOT_ALLOWED"
	CodeOTPFormatInvalid      = "OTP_FORMAT_INVALID"
	CodeOTPRejected           = "OTP_REJECTED"
	CodeChallengeMissing      = "CHALLENGE_MISSING"
	CodeChallengeExpired      = "CHALLENGE_EXPIRED"
	CodeResendCooldownActive  = "RESEND_COOLDOWN_ACTIVE"
	CodeAlreadyVerified       = "ALREADY_VERIFIED"
	CodeVerifyInProgress      = "VERIFY_IN_PROGRESS"
	CodeTeamIDInvalid         = "TEAM_ID_INVALID"
	CodeMemberEmailEmpty      = "MEMBER_EMAIL_EMPTY"
	CodeRosterAccessDenied    = "ROSTER_ACCESS_DENIED"
	CodeWaitlistAlreadyJoined = "WAITLIST_ALREADY_JOINED"
	CodeWaitlistUnavailable   = "WAITLIST_UNAVAILABLE"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeRateLimited           = "RATE_LIMITED"
	CodeUnknown               = "UNKNOWN"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Registration errors
		CodeMalformedRequest:      "The request could not be understood",
		CodeEmailInvalid:          "Enter a valid email address",
		CodeEmailDomainNotAllowed: "Use your {{.Domain}} email address",
		CodeOTPFormatInvalid:      "The verification code must be {{.Length}} digits",
		CodeOTPRejected:           "That code did not match, check it and try again",
		CodeChallengeMissing:      "Request a verification code first",
		CodeChallengeExpired:      "That verification code expired, request a new one",
		CodeResendCooldownActive:  "Wait {{.Seconds}} seconds before requesting another code",
		CodeAlreadyVerified:       "This device is already registered",
		CodeVerifyInProgress:      "A verification is already in progress",

		// Team errors
		CodeTeamIDInvalid:      "That team code is not valid",
		CodeMemberEmailEmpty:   "Member email cannot be empty",
		CodeRosterAccessDenied: "You can only view your own team",

		// Waitlist errors
		CodeWaitlistAlreadyJoined: "You are already on the waitlist",
		CodeWaitlistUnavailable:   "The waitlist is unavailable right now, try again later",

		// Storage errors
		CodeNotFound:      "The requested resource was not found",
		CodeAlreadyExists: "That record already exists",

		// Transport errors
		CodeRateLimited: "Too many requests, please slow down",

		CodeUnknown: "Something went wrong, please try again later",
	},
}
