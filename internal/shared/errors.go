// Package shared contains sentinel errors and small utilities used by both
// the client core and the server. Callers match these values with errors.Is.
package shared

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth flow errors, classified for the sign-in boundary.
	ErrorInvalidCredentials = errors.New("invalid login credentials")
	ErrorEmailNotConfirmed  = errors.New("email not confirmed")
	ErrorRateLimited        = errors.New("over request rate limit")
	ErrorEmailTaken         = errors.New("email already registered")

	// Token lifecycle errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Storage errors.
	ErrorObjectExists = errors.New("object already exists")
)
