package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the durable record of a revocable bearer credential. The
// opaque token value handed to the client is never stored; TokenHash holds
// its SHA-256 digest. Revocation is a one-way transition on RevokedAt.
type RefreshToken struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash     string     `json:"-" db:"token_hash"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	RevokedReason *string    `json:"revoked_reason,omitempty" db:"revoked_reason"`
}

// IsRevoked reports whether the token has been revoked.
func (t *RefreshToken) IsRevoked() bool { return t.RevokedAt != nil }

// IsExpired reports whether the token has passed its expiry at the given
// instant.
func (t *RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// Revocation reasons recorded on refresh tokens.
const (
	RevokeReasonLogout          = "logout"
	RevokeReasonRotated         = "rotated"
	RevokeReasonPasswordChanged = "password_changed"
	RevokeReasonPasswordReset   = "password_reset"
)

// TokenPair is the credential set returned to clients: a short-lived
// stateless access token plus a longer-lived revocable refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // Access token lifetime in seconds.
	TokenType    string `json:"token_type"` // Always "Bearer".
}
