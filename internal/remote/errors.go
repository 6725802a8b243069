package remote

// AuthErrorCode is a machine-readable auth failure code, mirrored from the
// backend so clients can classify failures without string matching.
type AuthErrorCode string

const (
	CodeInvalidCredentials AuthErrorCode = "invalid_credentials"
	CodeEmailNotConfirmed  AuthErrorCode = "email_not_confirmed"
	CodeRateLimited        AuthErrorCode = "over_request_rate_limit"
	CodeEmailTaken         AuthErrorCode = "email_exists"
	CodeUnexpected         AuthErrorCode = "unexpected_failure"
)

// AuthError is a structured error returned by AuthProvider operations.
type AuthError struct {
	Code    AuthErrorCode
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}
