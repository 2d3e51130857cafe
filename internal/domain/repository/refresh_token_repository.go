package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

// RefreshTokenRepository is the revocation record for refresh tokens.
// Reads are strongly consistent: a revocation is visible to every
// subsequent lookup.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByTokenHash returns the token row whatever its state; callers
	// decide how revoked or expired tokens are reported. ErrNotFound when
	// the hash is unknown.
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Revoke sets revoked_at once. ErrTokenAlreadyRevoked when the token
	// was revoked before, ErrNotFound when the id is unknown.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error

	// RevokeAllForUser revokes every active token of the user and returns
	// how many were affected. Idempotent: a second call affects zero rows
	// and is not an error.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error)

	// DeleteExpired removes rows whose expiry passed before the cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
