package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

// OTPRepository is the OTP ledger. The supersede-then-insert and the
// consume operations are the two places where races between concurrent
// requests must be closed, so both are specified as atomic.
type OTPRepository interface {
	// CreateSuperseding marks every unconsumed code for (token.UserID,
	// token.Purpose) as consumed and inserts the new token, inside one
	// transaction. After it returns, token is the only active code for
	// that pair.
	CreateSuperseding(ctx context.Context, token *models.OTPToken) error

	// Consume atomically marks the active code matching (userID, purpose,
	// codeHash) as consumed at the given instant. It returns
	// ErrOTPInvalidOrExpired when no such active code exists, whether the
	// hash is wrong, the code is consumed, superseded, expired, or was
	// never issued. Exactly one of two concurrent calls for the same code
	// can succeed.
	Consume(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, codeHash string, at time.Time) error

	// FindLatest returns the most recently created code for (userID,
	// purpose) regardless of state, or ErrNotFound. Used by retention and
	// diagnostics, not by the verification path.
	FindLatest(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPToken, error)

	// DeleteExpired removes codes whose expiry passed before the cutoff.
	// Retention cleanup only; the request path never deletes.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
