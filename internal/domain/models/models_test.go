package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPToken_IsActive(t *testing.T) {
	now := time.Now()
	consumed := now.Add(-time.Minute)

	cases := []struct {
		name     string
		token    OTPToken
		expected bool
	}{
		{"live", OTPToken{ExpiresAt: now.Add(time.Minute)}, true},
		{"expired", OTPToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"at expiry instant", OTPToken{ExpiresAt: now}, false},
		{"consumed", OTPToken{ExpiresAt: now.Add(time.Minute), ConsumedAt: &consumed}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.token.IsActive(now))
		})
	}
}

func TestRefreshToken_IsExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&RefreshToken{ExpiresAt: now.Add(time.Second)}).IsExpired(now))
	assert.True(t, (&RefreshToken{ExpiresAt: now}).IsExpired(now))
	assert.True(t, (&RefreshToken{ExpiresAt: now.Add(-time.Second)}).IsExpired(now))
}

func TestRefreshToken_IsRevoked(t *testing.T) {
	now := time.Now()

	assert.False(t, (&RefreshToken{}).IsRevoked())
	assert.True(t, (&RefreshToken{RevokedAt: &now}).IsRevoked())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "user@example.com", NormalizeEmail("user@example.com"))
}

func TestUser_FullName(t *testing.T) {
	u := User{Email: "user@example.com"}
	assert.Equal(t, "user@example.com", u.FullName())

	u.FirstName = "Ada"
	assert.Equal(t, "Ada", u.FullName())

	u.LastName = "Lovelace"
	assert.Equal(t, "Ada Lovelace", u.FullName())
}

func TestUser_ToResponse(t *testing.T) {
	now := time.Now()
	u := User{Email: "user@example.com", Role: RoleStudent, EmailVerifiedAt: &now}

	resp := u.ToResponse()
	assert.Equal(t, "user@example.com", resp.Email)
	assert.Equal(t, RoleStudent, resp.Role)
	assert.True(t, resp.IsEmailVerified)
}
