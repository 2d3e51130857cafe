package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	domainService "github.com/AbrarZaved/EduTutor/internal/domain/service"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*models.User, error) {
	args := m.Called(ctx, id, firstName, lastName)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) CreateSuperseding(ctx context.Context, token *models.OTPToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockOTPRepository) Consume(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, codeHash string, at time.Time) error {
	args := m.Called(ctx, userID, purpose, codeHash, at)
	return args.Error(0)
}

func (m *MockOTPRepository) FindLatest(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPToken, error) {
	args := m.Called(ctx, userID, purpose)
	if t := args.Get(0); t != nil {
		return t.(*models.OTPToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOTPRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if t := args.Get(0); t != nil {
		return t.(*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time, reason string) error {
	args := m.Called(ctx, id, at, reason)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time, reason string) (int64, error) {
	args := m.Called(ctx, userID, at, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockOTPThrottle struct {
	mock.Mock
}

func (m *MockOTPThrottle) AcquireCooldown(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, purpose, window)
	return args.Bool(0), args.Error(1)
}

type MockResetLinkDenylist struct {
	mock.Mock
}

func (m *MockResetLinkDenylist) MarkUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, jti, ttl)
	return args.Bool(0), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, job models.NotificationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) CheckPasswordHash(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID, email, role string, emailVerified bool) (string, *domainService.Claims, error) {
	args := m.Called(userID, email, role, emailVerified)
	var claims *domainService.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*domainService.Claims)
	}
	return args.String(0), claims, args.Error(2)
}

func (m *MockTokenManager) ValidateAccessToken(tokenString string) (*domainService.Claims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(*domainService.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshTokenValue() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateResetLinkToken(userID string) (string, *domainService.ResetLinkClaims, error) {
	args := m.Called(userID)
	var claims *domainService.ResetLinkClaims
	if c := args.Get(1); c != nil {
		claims = c.(*domainService.ResetLinkClaims)
	}
	return args.String(0), claims, args.Error(2)
}

func (m *MockTokenManager) ValidateResetLinkToken(tokenString string) (*domainService.ResetLinkClaims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(*domainService.ResetLinkClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenManager) GetAccessTokenExpiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *MockTokenManager) GetRefreshTokenExpiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *MockTokenManager) GetJWKS() (map[string]interface{}, error) {
	args := m.Called()
	if j := args.Get(0); j != nil {
		return j.(map[string]interface{}), args.Error(1)
	}
	return nil, args.Error(1)
}
