package service

import (
	"context"
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
)

type VerificationServiceTestSuite struct {
	suite.Suite

	mockUserRepo   *MockUserRepository
	mockOTPRepo    *MockOTPRepository
	mockThrottle   *MockOTPThrottle
	mockDispatcher *MockDispatcher

	verificationService *VerificationService
}

func (s *VerificationServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockOTPRepo = new(MockOTPRepository)
	s.mockThrottle = new(MockOTPThrottle)
	s.mockDispatcher = new(MockDispatcher)

	logger := zap.NewNop()
	features := config.FeaturesConfig{
		OTPExpiry:         10 * time.Minute,
		OTPLength:         4,
		OTPResendCooldown: time.Minute,
	}
	otpService := NewOTPService(s.mockOTPRepo, s.mockThrottle, s.mockDispatcher, features, logger)
	s.verificationService = NewVerificationService(s.mockUserRepo, otpService, logger)
}

func (s *VerificationServiceTestSuite) unverifiedUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "user@example.com", Status: models.UserStatusActive}
}

func (s *VerificationServiceTestSuite) TestRequest_IssuesCode() {
	ctx := context.Background()
	user := s.unverifiedUser()
	s.mockThrottle.On("AcquireCooldown", ctx, user.ID, models.OTPPurposeEmailVerification, time.Minute).
		Return(true, nil).Once()
	s.mockOTPRepo.On("CreateSuperseding", ctx, mock.Anything).Return(nil).Once()
	s.mockDispatcher.On("Dispatch", ctx, mock.Anything).Return(nil).Once()

	err := s.verificationService.Request(ctx, user)

	assert.NoError(s.T(), err)
}

func (s *VerificationServiceTestSuite) TestRequest_AlreadyVerified() {
	user := s.unverifiedUser()
	now := time.Now()
	user.EmailVerifiedAt = &now

	err := s.verificationService.Request(context.Background(), user)

	assert.ErrorIs(s.T(), err, domainErrors.ErrAlreadyVerified)
	s.mockThrottle.AssertNotCalled(s.T(), "AcquireCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *VerificationServiceTestSuite) TestConfirm_MarksVerifiedOnce() {
	ctx := context.Background()
	user := s.unverifiedUser()
	s.mockOTPRepo.On("Consume", ctx, user.ID, models.OTPPurposeEmailVerification, mock.Anything, mock.Anything).
		Return(nil).Once()
	s.mockUserRepo.On("MarkEmailVerified", ctx, user.ID, mock.Anything).Return(nil).Once()

	err := s.verificationService.Confirm(ctx, user, "1234")

	assert.NoError(s.T(), err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *VerificationServiceTestSuite) TestConfirm_SecondConfirmDoesNotMutate() {
	user := s.unverifiedUser()
	now := time.Now()
	user.EmailVerifiedAt = &now

	err := s.verificationService.Confirm(context.Background(), user, "1234")

	assert.ErrorIs(s.T(), err, domainErrors.ErrAlreadyVerified)
	s.mockOTPRepo.AssertNotCalled(s.T(), "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockUserRepo.AssertNotCalled(s.T(), "MarkEmailVerified", mock.Anything, mock.Anything, mock.Anything)
}

func (s *VerificationServiceTestSuite) TestConfirm_WrongCode() {
	ctx := context.Background()
	user := s.unverifiedUser()
	s.mockOTPRepo.On("Consume", ctx, user.ID, models.OTPPurposeEmailVerification, mock.Anything, mock.Anything).
		Return(domainErrors.ErrOTPInvalidOrExpired).Once()

	err := s.verificationService.Confirm(ctx, user, "0000")

	assert.ErrorIs(s.T(), err, domainErrors.ErrOTPInvalidOrExpired)
	s.mockUserRepo.AssertNotCalled(s.T(), "MarkEmailVerified", mock.Anything, mock.Anything, mock.Anything)
}

func (s *VerificationServiceTestSuite) TestConfirmByEmail_UnknownEmailUniformFailure() {
	ctx := context.Background()
	s.mockUserRepo.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, domainErrors.ErrNotFound).Once()

	err := s.verificationService.ConfirmByEmail(ctx, "ghost@example.com", "1234")

	assert.ErrorIs(s.T(), err, domainErrors.ErrOTPInvalidOrExpired)
}

func TestVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}
