package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
)

// VerificationService runs the email verification flow: request a code,
// confirm it, flip email_verified_at exactly once.
type VerificationService struct {
	userRepo   repository.UserRepository
	otpService *OTPService
	logger     *zap.Logger
}

func NewVerificationService(
	userRepo repository.UserRepository,
	otpService *OTPService,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		userRepo:   userRepo,
		otpService: otpService,
		logger:     logger.Named("verification_service"),
	}
}

// Request issues an email_verification code for the user unless the account
// is already verified.
func (s *VerificationService) Request(ctx context.Context, user *models.User) error {
	if user.IsEmailVerified() {
		return domainErrors.ErrAlreadyVerified
	}
	return s.otpService.Issue(ctx, user, models.OTPPurposeEmailVerification)
}

// Confirm consumes the code and marks the email verified. A second confirm
// reports ErrAlreadyVerified without mutating anything.
func (s *VerificationService) Confirm(ctx context.Context, user *models.User, code string) error {
	if user.IsEmailVerified() {
		return domainErrors.ErrAlreadyVerified
	}
	if err := s.otpService.VerifyAndConsume(ctx, user.ID, models.OTPPurposeEmailVerification, code); err != nil {
		return err
	}
	if err := s.userRepo.MarkEmailVerified(ctx, user.ID, time.Now()); err != nil {
		return err
	}
	s.logger.Info("email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ConfirmByEmail is the unauthenticated confirm variant used right after
// registration, before the client holds a token. An unknown email fails the
// same way as a wrong code.
func (s *VerificationService) ConfirmByEmail(ctx context.Context, email, code string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrOTPInvalidOrExpired
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return s.Confirm(ctx, user, code)
}
