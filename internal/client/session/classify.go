package session

import (
	"errors"
	"strings"

	"github.com/wealthboard/wealthboard/internal/remote"
)

// User-facing messages for classified auth failures.
const (
	MsgInvalidCredentials = "Incorrect email or password"
	MsgEmailNotConfirmed  = "Please confirm your email address before signing in"
	MsgRateLimited        = "Too many attempts. Please wait a moment and try again"
	MsgEmailTaken         = "An account with this email already exists"
	MsgUnexpected         = "An unexpected error occurred. Please try again"
)

// AuthMessageError carries a user-readable message while preserving the
// underlying provider error for logging.
type AuthMessageError struct {
	Message string
	Cause   error
}

func (e *AuthMessageError) Error() string { return e.Message }
func (e *AuthMessageError) Unwrap() error { return e.Cause }

// ClassifyAuthError maps a provider error to a user-facing message.
// Structured codes are preferred; known message substrings are a fallback
// for providers that only return text. Anything unrecognized gets the
// generic message — never raw provider internals.
func ClassifyAuthError(err error) string {
	var authErr *remote.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Code {
		case remote.CodeInvalidCredentials:
			return MsgInvalidCredentials
		case remote.CodeEmailNotConfirmed:
			return MsgEmailNotConfirmed
		case remote.CodeRateLimited:
			return MsgRateLimited
		case remote.CodeEmailTaken:
			return MsgEmailTaken
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid login credentials"):
		return MsgInvalidCredentials
	case strings.Contains(msg, "email not confirmed"):
		return MsgEmailNotConfirmed
	case strings.Contains(msg, "rate limit"):
		return MsgRateLimited
	default:
		return MsgUnexpected
	}
}
