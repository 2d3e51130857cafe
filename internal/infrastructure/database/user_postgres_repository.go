// Package database holds the pgx implementations of the repository
// contracts declared in internal/domain/repository.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, status,
	email_verified_at, last_login_at, created_at, updated_at`

type pgxUserRepository struct {
	db *pgxpool.Pool
}

// NewPgxUserRepository creates the Postgres-backed credential store.
func NewPgxUserRepository(db *pgxpool.Pool) repository.UserRepository {
	return &pgxUserRepository{db: db}
}

func (r *pgxUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrEmailTaken
		}
		return domainErrors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, models.NormalizeEmail(email)))
}

func (r *pgxUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanOne(r.db.QueryRow(ctx, query, id, firstName, lastName))
}

func (r *pgxUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return domainErrors.Wrap(err, "failed to update password hash")
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return domainErrors.Wrap(err, "failed to update last login")
	}
	return nil
}

// MarkEmailVerified sets email_verified_at only when it is still NULL, so
// the flag flips exactly once even under concurrent confirmations.
func (r *pgxUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users SET email_verified_at = $2, updated_at = NOW()
		WHERE id = $1 AND email_verified_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return domainErrors.Wrap(err, "failed to mark email verified")
	}
	if tag.RowsAffected() == 0 {
		// Either the user does not exist or the email was already
		// verified; distinguish for the caller.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domainErrors.ErrAlreadyVerified
	}
	return nil
}

func (r *pgxUserRepository) scanOne(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.Status,
		&u.EmailVerifiedAt, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, domainErrors.Wrap(err, "failed to scan user")
	}
	return u, nil
}

var _ repository.UserRepository = (*pgxUserRepository)(nil)
