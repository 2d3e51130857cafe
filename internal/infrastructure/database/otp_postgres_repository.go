package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
)

type pgxOTPRepository struct {
	db *pgxpool.Pool
}

// NewPgxOTPRepository creates the Postgres-backed OTP ledger.
func NewPgxOTPRepository(db *pgxpool.Pool) repository.OTPRepository {
	return &pgxOTPRepository{db: db}
}

// CreateSuperseding runs the supersede-then-insert inside one transaction so
// no window exists where two codes for the same (user, purpose) are active.
func (r *pgxOTPRepository) CreateSuperseding(ctx context.Context, token *models.OTPToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domainErrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	supersede := `
		UPDATE otp_tokens SET consumed_at = $3
		WHERE user_id = $1 AND purpose = $2 AND consumed_at IS NULL`
	if _, err := tx.Exec(ctx, supersede, token.UserID, token.Purpose, token.CreatedAt); err != nil {
		return domainErrors.Wrap(err, "failed to supersede prior codes")
	}

	insert := `
		INSERT INTO otp_tokens (id, user_id, purpose, code_hash, created_at, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, insert,
		token.ID, token.UserID, token.Purpose, token.CodeHash,
		token.CreatedAt, token.ExpiresAt, token.ConsumedAt,
	); err != nil {
		return domainErrors.Wrap(err, "failed to insert otp token")
	}

	if err := tx.Commit(ctx); err != nil {
		return domainErrors.Wrap(err, "failed to commit otp issuance")
	}
	return nil
}

// Consume is a single conditional update: the check (unconsumed, unexpired,
// matching hash) and the mark happen in one statement, so of two concurrent
// calls racing on the same code exactly one sees a row to update.
func (r *pgxOTPRepository) Consume(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, codeHash string, at time.Time) error {
	query := `
		UPDATE otp_tokens SET consumed_at = $4
		WHERE user_id = $1 AND purpose = $2 AND code_hash = $3
		  AND consumed_at IS NULL AND expires_at > $4`
	tag, err := r.db.Exec(ctx, query, userID, purpose, codeHash, at)
	if err != nil {
		return domainErrors.Wrap(err, "failed to consume otp token")
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOTPInvalidOrExpired
	}
	return nil
}

func (r *pgxOTPRepository) FindLatest(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPToken, error) {
	query := `
		SELECT id, user_id, purpose, code_hash, created_at, expires_at, consumed_at
		FROM otp_tokens
		WHERE user_id = $1 AND purpose = $2
		ORDER BY created_at DESC LIMIT 1`
	t := &models.OTPToken{}
	err := r.db.QueryRow(ctx, query, userID, purpose).Scan(
		&t.ID, &t.UserID, &t.Purpose, &t.CodeHash, &t.CreatedAt, &t.ExpiresAt, &t.ConsumedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.Wrap(err, "failed to find latest otp token")
	}
	return t, nil
}

func (r *pgxOTPRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM otp_tokens WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, domainErrors.Wrap(err, "failed to delete expired otp tokens")
	}
	return tag.RowsAffected(), nil
}

var _ repository.OTPRepository = (*pgxOTPRepository)(nil)
