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

type pgxRefreshTokenRepository struct {
	db *pgxpool.Pool
}

// NewPgxRefreshTokenRepository creates the Postgres-backed refresh token
// store.
func NewPgxRefreshTokenRepository(db *pgxpool.Pool) repository.RefreshTokenRepository {
	return &pgxRefreshTokenRepository{db: db}
}

func (r *pgxRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at, revoked_at, revoked_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash,
		token.ExpiresAt, token.CreatedAt, token.RevokedAt, token.RevokedReason,
	)
	if err != nil {
		return domainErrors.Wrap(err, "failed to insert refresh token")
	}
	return nil
}

func (r *pgxRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at, revoked_reason
		FROM refresh_tokens
		WHERE token_hash = $1`
	t := &models.RefreshToken{}
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt, &t.RevokedReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.Wrap(err, "failed to find refresh token")
	}
	return t, nil
}

// Revoke writes revoked_at once. The conditional update distinguishes a
// missing row from one revoked earlier with a follow-up read only on the
// zero-rows path.
func (r *pgxRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error {
	query := `
		UPDATE refresh_tokens SET revoked_at = $2, revoked_reason = $3
		WHERE id = $1 AND revoked_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id, at, reason)
	if err != nil {
		return domainErrors.Wrap(err, "failed to revoke refresh token")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE id = $1)`
		if err := r.db.QueryRow(ctx, check, id).Scan(&exists); err != nil {
			return domainErrors.Wrap(err, "failed to check refresh token")
		}
		if !exists {
			return domainErrors.ErrNotFound
		}
		return domainErrors.ErrTokenAlreadyRevoked
	}
	return nil
}

func (r *pgxRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error) {
	query := `
		UPDATE refresh_tokens SET revoked_at = $2, revoked_reason = $3
		WHERE user_id = $1 AND revoked_at IS NULL`
	tag, err := r.db.Exec(ctx, query, userID, at, reason)
	if err != nil {
		return 0, domainErrors.Wrap(err, "failed to revoke user refresh tokens")
	}
	return tag.RowsAffected(), nil
}

func (r *pgxRefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, domainErrors.Wrap(err, "failed to delete expired refresh tokens")
	}
	return tag.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*pgxRefreshTokenRepository)(nil)
