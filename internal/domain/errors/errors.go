// Package errors defines the failure vocabulary of the identity core.
// Services return these sentinels (possibly wrapped); the HTTP layer maps
// them to status codes. Security-sensitive failures are deliberately coarse:
// a caller cannot tell "no such user" from "wrong password", or "wrong code"
// from "expired code".
package errors

import (
	"errors"
	"fmt"
)

var (
	// Generic failures.
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")

	// Authentication failures. ErrInvalidCredentials covers both unknown
	// email and wrong password so responses leak nothing about account
	// existence.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Token failures.
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenAlreadyRevoked = errors.New("refresh token already revoked")

	// OTP failures. The single sentinel covers wrong, consumed, expired,
	// superseded and absent codes alike.
	ErrOTPInvalidOrExpired = errors.New("invalid or expired code")
	ErrOTPCooldown         = errors.New("code requested too recently")

	// Account-state failures.
	ErrEmailTaken      = errors.New("email already in use")
	ErrWeakPassword    = errors.New("password does not meet requirements")
	ErrAlreadyVerified = errors.New("email already verified")

	// Flow gating.
	ErrFeatureDisabled = errors.New("feature is disabled")
)

// IsUnauthorized reports whether err should surface as 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrTokenAlreadyRevoked)
}

// IsForbidden reports whether err should surface as 403.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrFeatureDisabled) ||
		errors.Is(err, ErrAccountDisabled)
}

// IsConflict reports whether err should surface as 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyVerified)
}

// IsBadRequest reports whether err should surface as 400.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrOTPInvalidOrExpired)
}

// IsTooManyRequests reports whether err should surface as 429.
func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrOTPCooldown)
}

// Wrap annotates an infrastructure error without changing its classification.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
