package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates a deactivated account.
	ErrAccountInactive = errors.New("account inactive")
	// ErrNewPasswordRequired indicates a forced password reset is pending.
	ErrNewPasswordRequired = errors.New("new password required")
	// ErrResetTokenInvalid occurs when a password reset token is bad or expired.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
	// ErrWeakPassword occurs when a new password fails the strength policy.
	ErrWeakPassword = errors.New("password does not meet minimum requirements")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
