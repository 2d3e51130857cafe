package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	domainService "github.com/AbrarZaved/EduTutor/internal/domain/service"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/security"
	"github.com/google/uuid"
)

const dummyPassword = "this-password-is-never-accepted"

type AuthServiceTestSuite struct {
	suite.Suite

	mockUserRepo    *MockUserRepository
	mockOTPRepo     *MockOTPRepository
	mockRefreshRepo *MockRefreshTokenRepository
	mockThrottle    *MockOTPThrottle
	mockDispatcher  *MockDispatcher
	mockPasswords   *MockPasswordService
	mockTokens      *MockTokenManager

	authService *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockOTPRepo = new(MockOTPRepository)
	s.mockRefreshRepo = new(MockRefreshTokenRepository)
	s.mockThrottle = new(MockOTPThrottle)
	s.mockDispatcher = new(MockDispatcher)
	s.mockPasswords = new(MockPasswordService)
	s.mockTokens = new(MockTokenManager)

	logger := zap.NewNop()
	features := config.FeaturesConfig{
		EnablePasswordReset: true,
		EnableProfileEdit:   true,
		OTPExpiry:           10 * time.Minute,
		OTPLength:           4,
		OTPResendCooldown:   time.Minute,
	}
	securityCfg := config.SecurityConfig{MinPasswordLength: 8}

	tokenService := NewTokenService(s.mockTokens, s.mockRefreshRepo, s.mockUserRepo, logger)
	otpService := NewOTPService(s.mockOTPRepo, s.mockThrottle, s.mockDispatcher, features, logger)

	s.mockPasswords.On("HashPassword", dummyPassword).Return("dummy-hash", nil).Once()
	var err error
	s.authService, err = NewAuthService(s.mockUserRepo, s.mockPasswords, tokenService, otpService, securityCfg, logger)
	s.Require().NoError(err)
}

func (s *AuthServiceTestSuite) expectTokenPairIssued() {
	s.mockTokens.On("GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("access-token", &domainService.Claims{}, nil).Once()
	s.mockTokens.On("GenerateRefreshTokenValue").Return("refresh-value", nil).Once()
	s.mockTokens.On("GetRefreshTokenExpiry").Return(720 * time.Hour).Once()
	s.mockTokens.On("GetAccessTokenExpiry").Return(15 * time.Minute).Once()
	s.mockRefreshRepo.On("Create", mock.Anything, mock.MatchedBy(func(t *models.RefreshToken) bool {
		return t.TokenHash == security.HashToken("refresh-value")
	})).Return(nil).Once()
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := models.RegisterRequest{
		Email:     "New@Example.com",
		Password:  "password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	s.mockPasswords.On("HashPassword", req.Password).Return("hashed", nil).Once()
	s.mockUserRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == models.RoleStudent &&
			u.Status == models.UserStatusActive &&
			u.EmailVerifiedAt == nil
	})).Return(nil).Once()
	s.expectTokenPairIssued()

	s.mockThrottle.On("AcquireCooldown", ctx, mock.Anything, models.OTPPurposeEmailVerification, time.Minute).
		Return(true, nil).Once()
	s.mockOTPRepo.On("CreateSuperseding", ctx, mock.Anything).Return(nil).Once()
	s.mockDispatcher.On("Dispatch", ctx, mock.MatchedBy(func(j models.NotificationJob) bool {
		return j.Type == models.NotificationEmailVerifyOTP && j.RecipientEmail == "new@example.com"
	})).Return(nil).Once()

	user, pair, err := s.authService.Register(ctx, req)

	s.Require().NoError(err)
	assert.Equal(s.T(), "new@example.com", user.Email)
	assert.Equal(s.T(), "access-token", pair.AccessToken)
	assert.Equal(s.T(), "refresh-value", pair.RefreshToken)
	assert.Equal(s.T(), "Bearer", pair.TokenType)
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockDispatcher.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	_, _, err := s.authService.Register(context.Background(), models.RegisterRequest{
		Email:    "a@b.com",
		Password: "short",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrWeakPassword)
	s.mockUserRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_UnknownRole() {
	_, _, err := s.authService.Register(context.Background(), models.RegisterRequest{
		Email:    "a@b.com",
		Password: "password123",
		Role:     models.UserRole("wizard"),
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRequest)
}

func (s *AuthServiceTestSuite) TestRegister_EmailTaken() {
	ctx := context.Background()
	s.mockPasswords.On("HashPassword", "password123").Return("hashed", nil).Once()
	s.mockUserRepo.On("Create", ctx, mock.Anything).Return(domainErrors.ErrEmailTaken).Once()

	_, _, err := s.authService.Register(ctx, models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrEmailTaken)
	s.mockTokens.AssertNotCalled(s.T(), "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "stored-hash",
		Role:         models.RoleStudent,
		Status:       models.UserStatusActive,
	}

	s.mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "password123", "stored-hash").Return(true, nil).Once()
	s.expectTokenPairIssued()
	s.mockUserRepo.On("UpdateLastLogin", ctx, user.ID, mock.Anything).Return(nil).Once()

	gotUser, pair, err := s.authService.Login(ctx, models.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), user.ID, gotUser.ID)
	assert.NotNil(s.T(), gotUser.LastLoginAt)
	assert.Equal(s.T(), "access-token", pair.AccessToken)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail_UniformFailure() {
	ctx := context.Background()
	s.mockUserRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, domainErrors.ErrNotFound).Once()
	// The dummy comparison keeps unknown-email timing close to wrong-password.
	s.mockPasswords.On("CheckPasswordHash", "whatever123", "dummy-hash").Return(false, nil).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidCredentials)
	s.mockPasswords.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword_UniformFailure() {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: "stored-hash", Status: models.UserStatusActive}
	s.mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "wrongpassword", "stored-hash").Return(false, nil).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{
		Email:    "user@example.com",
		Password: "wrongpassword",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidCredentials)
	s.mockTokens.AssertNotCalled(s.T(), "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_DisabledAccount() {
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: "stored-hash", Status: models.UserStatusDisabled}
	s.mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "password123", "stored-hash").Return(true, nil).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrAccountDisabled)
}

func (s *AuthServiceTestSuite) TestLogout_AlreadyRevokedIsIdempotent() {
	ctx := context.Background()
	record := &models.RefreshToken{ID: uuid.New(), UserID: uuid.New()}
	s.mockRefreshRepo.On("FindByTokenHash", ctx, security.HashToken("some-token")).Return(record, nil).Once()
	s.mockRefreshRepo.On("Revoke", ctx, record.ID, mock.Anything, models.RevokeReasonLogout).
		Return(domainErrors.ErrTokenAlreadyRevoked).Once()

	err := s.authService.Logout(ctx, "some-token")

	assert.NoError(s.T(), err)
}

func (s *AuthServiceTestSuite) TestLogout_UnknownToken() {
	ctx := context.Background()
	s.mockRefreshRepo.On("FindByTokenHash", ctx, mock.Anything).
		Return(nil, domainErrors.ErrNotFound).Once()

	err := s.authService.Logout(ctx, "unknown-token")

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRefreshToken)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
