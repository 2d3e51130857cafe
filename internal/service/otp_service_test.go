package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/security"
)

type OTPServiceTestSuite struct {
	suite.Suite

	mockOTPRepo    *MockOTPRepository
	mockThrottle   *MockOTPThrottle
	mockDispatcher *MockDispatcher

	features   config.FeaturesConfig
	otpService *OTPService
}

func (s *OTPServiceTestSuite) SetupTest() {
	s.mockOTPRepo = new(MockOTPRepository)
	s.mockThrottle = new(MockOTPThrottle)
	s.mockDispatcher = new(MockDispatcher)
	s.features = config.FeaturesConfig{
		OTPExpiry:         10 * time.Minute,
		OTPLength:         4,
		OTPResendCooldown: time.Minute,
	}
	s.otpService = NewOTPService(s.mockOTPRepo, s.mockThrottle, s.mockDispatcher, s.features, zap.NewNop())
}

func (s *OTPServiceTestSuite) user() *models.User {
	return &models.User{ID: uuid.New(), Email: "user@example.com", FirstName: "Ada"}
}

func (s *OTPServiceTestSuite) TestIssue_StoresHashedCodeAndDispatches() {
	ctx := context.Background()
	user := s.user()

	s.mockThrottle.On("AcquireCooldown", ctx, user.ID, models.OTPPurposePasswordReset, time.Minute).
		Return(true, nil).Once()

	var storedToken *models.OTPToken
	s.mockOTPRepo.On("CreateSuperseding", ctx, mock.MatchedBy(func(t *models.OTPToken) bool {
		storedToken = t
		return t.UserID == user.ID && t.Purpose == models.OTPPurposePasswordReset
	})).Return(nil).Once()

	var job models.NotificationJob
	s.mockDispatcher.On("Dispatch", ctx, mock.MatchedBy(func(j models.NotificationJob) bool {
		job = j
		return true
	})).Return(nil).Once()

	err := s.otpService.Issue(ctx, user, models.OTPPurposePasswordReset)

	s.Require().NoError(err)
	s.Require().NotNil(storedToken)
	assert.Nil(s.T(), storedToken.ConsumedAt)
	assert.WithinDuration(s.T(), time.Now().Add(10*time.Minute), storedToken.ExpiresAt, 5*time.Second)

	// The dispatched code is 4 digits and its hash matches the stored row.
	code := job.Payload["code"]
	s.Require().Len(code, 4)
	for _, r := range code {
		assert.True(s.T(), r >= '0' && r <= '9')
	}
	assert.Equal(s.T(), security.HashToken(code), storedToken.CodeHash)
	assert.NotContains(s.T(), storedToken.CodeHash, code)
	assert.Equal(s.T(), models.NotificationPasswordResetOTP, job.Type)
	assert.Contains(s.T(), job.JobKey, user.ID.String())
	assert.Contains(s.T(), job.JobKey, storedToken.ID.String())
}

func (s *OTPServiceTestSuite) TestIssue_CooldownBlocksBeforeAnyWrite() {
	ctx := context.Background()
	user := s.user()
	s.mockThrottle.On("AcquireCooldown", ctx, user.ID, models.OTPPurposeEmailVerification, time.Minute).
		Return(false, nil).Once()

	err := s.otpService.Issue(ctx, user, models.OTPPurposeEmailVerification)

	assert.ErrorIs(s.T(), err, domainErrors.ErrOTPCooldown)
	s.mockOTPRepo.AssertNotCalled(s.T(), "CreateSuperseding", mock.Anything, mock.Anything)
	s.mockDispatcher.AssertNotCalled(s.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (s *OTPServiceTestSuite) TestIssue_DispatchFailureDoesNotFailIssuance() {
	ctx := context.Background()
	user := s.user()
	s.mockThrottle.On("AcquireCooldown", ctx, user.ID, models.OTPPurposePasswordChange, time.Minute).
		Return(true, nil).Once()
	s.mockOTPRepo.On("CreateSuperseding", ctx, mock.Anything).Return(nil).Once()
	s.mockDispatcher.On("Dispatch", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	err := s.otpService.Issue(ctx, user, models.OTPPurposePasswordChange)

	assert.NoError(s.T(), err)
}

func (s *OTPServiceTestSuite) TestVerifyAndConsume_PassesHashedCode() {
	ctx := context.Background()
	userID := uuid.New()
	s.mockOTPRepo.On("Consume", ctx, userID, models.OTPPurposePasswordReset, security.HashToken("1234"), mock.Anything).
		Return(nil).Once()

	err := s.otpService.VerifyAndConsume(ctx, userID, models.OTPPurposePasswordReset, "1234")

	assert.NoError(s.T(), err)
	s.mockOTPRepo.AssertExpectations(s.T())
}

func (s *OTPServiceTestSuite) TestVerifyAndConsume_UniformFailure() {
	ctx := context.Background()
	userID := uuid.New()
	s.mockOTPRepo.On("Consume", ctx, userID, models.OTPPurposePasswordReset, mock.Anything, mock.Anything).
		Return(domainErrors.ErrOTPInvalidOrExpired).Once()

	err := s.otpService.VerifyAndConsume(ctx, userID, models.OTPPurposePasswordReset, "0000")

	assert.ErrorIs(s.T(), err, domainErrors.ErrOTPInvalidOrExpired)
}

func TestOTPServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OTPServiceTestSuite))
}
