package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the identity anchor of the platform. Accounts are keyed by a
// unique, case-normalized email address; there is no separate username.
type User struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	FirstName       string     `json:"first_name" db:"first_name"`
	LastName        string     `json:"last_name" db:"last_name"`
	Role            UserRole   `json:"role" db:"role"`
	Status          UserStatus `json:"status" db:"status"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" db:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// UserStatus defines the possible statuses for a user account. Disabling is
// an administrative action; none of the self-service flows change it.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// UserRole mirrors the platform's account types.
type UserRole string

const (
	RoleStudent     UserRole = "student"
	RoleTeacher     UserRole = "teacher"
	RoleParent      UserRole = "parent"
	RoleSchoolAdmin UserRole = "school_admin"
)

// IsEmailVerified reports whether the email verification flow has completed
// for this account. The timestamp flips exactly once.
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// FullName returns the display name, falling back to the email address when
// no name fields are set.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// NormalizeEmail lower-cases and trims an email address. Every lookup and
// every stored address goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserResponse structures the user data returned by API endpoints.
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Role            UserRole   `json:"role"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts a User to its API representation.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified(),
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}
