package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose discriminates what a one-time code may be consumed for. A code
// issued for one purpose never validates for another.
type OTPPurpose string

const (
	OTPPurposePasswordReset     OTPPurpose = "password_reset"
	OTPPurposePasswordChange    OTPPurpose = "password_change"
	OTPPurposeEmailVerification OTPPurpose = "email_verification"

	// OTPPurposeResetLink keys the issuance throttle for the link-based
	// reset flow. It is never persisted; links are signed tokens, not
	// stored codes.
	OTPPurposeResetLink OTPPurpose = "reset_link"
)

// OTPToken is a single-use verification code. Only the SHA-256 hash of the
// numeric code is persisted; the plain code exists solely in the notification
// payload sent to the user.
//
// A code is active iff ConsumedAt is nil and ExpiresAt is in the future.
// Issuing a new code for the same (user, purpose) supersedes prior active
// codes by marking them consumed, so at most one code per (user, purpose) is
// ever verifiable.
type OTPToken struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Purpose    OTPPurpose `json:"purpose" db:"purpose"`
	CodeHash   string     `json:"-" db:"code_hash"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty" db:"consumed_at"`
}

// IsActive reports whether the code can still be consumed at the given
// instant. A code exactly at its expiry timestamp is treated as expired.
func (t *OTPToken) IsActive(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
