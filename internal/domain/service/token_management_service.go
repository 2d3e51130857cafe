package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by access tokens.
type Claims struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// ResetLinkClaims represents the claims of a signed password-reset link
// token. The JTI is tracked for single use.
type ResetLinkClaims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetLinkPurpose is the fixed purpose claim of reset-link tokens; tokens
// carrying anything else are rejected.
const ResetLinkPurpose = "password_reset_link"

// TokenManagementService generates and validates signed tokens. Validation
// is pure: a signature and claims check with no store access, so it stays
// cheap on the request hot path.
type TokenManagementService interface {
	// GenerateAccessToken creates a signed access token for the user.
	GenerateAccessToken(userID, email, role string, emailVerified bool) (string, *Claims, error)

	// ValidateAccessToken verifies signature, issuer, audience and expiry,
	// returning the parsed claims. ErrExpiredToken and ErrInvalidToken are
	// the only failure kinds.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// GenerateRefreshTokenValue creates a new opaque refresh token value.
	// Only its hash is ever stored.
	GenerateRefreshTokenValue() (string, error)

	// GenerateResetLinkToken creates a signed, time-limited token for the
	// link-based password reset flow.
	GenerateResetLinkToken(userID string) (string, *ResetLinkClaims, error)

	// ValidateResetLinkToken verifies a reset-link token's signature,
	// purpose and expiry. Single-use tracking is the caller's concern.
	ValidateResetLinkToken(tokenString string) (*ResetLinkClaims, error)

	// GetAccessTokenExpiry returns the configured access token lifetime.
	GetAccessTokenExpiry() time.Duration

	// GetRefreshTokenExpiry returns the configured refresh token lifetime.
	GetRefreshTokenExpiry() time.Duration

	// GetJWKS returns the public key set used to verify access tokens.
	GetJWKS() (map[string]interface{}, error)
}
