package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

// OTPThrottleRepository enforces the per-(user, purpose) reissue cooldown.
// Acquisition must be atomic so concurrent issuance requests cannot both
// pass the throttle.
type OTPThrottleRepository interface {
	// AcquireCooldown attempts to take the cooldown slot for (userID,
	// purpose) for the given window. It returns false without error when
	// the slot is already held.
	AcquireCooldown(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, window time.Duration) (bool, error)
}

// ResetLinkDenylist records consumed password reset link identifiers so a
// link is honored at most once.
type ResetLinkDenylist interface {
	// MarkUsed records the token id as consumed, keeping the record for the
	// given ttl. It returns false without error when the id was already
	// recorded.
	MarkUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}
