// Package repository declares the persistence contracts of the identity
// core. Implementations live under internal/infrastructure/database; the
// service layer never touches the stores directly.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

// UserRepository is the credential store. Email uniqueness is enforced at
// the store; Create returns ErrEmailTaken on conflict.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkEmailVerified flips email_verified_at exactly once. It returns
	// ErrAlreadyVerified when the timestamp is already set.
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}
