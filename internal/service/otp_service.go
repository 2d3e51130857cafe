package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
	"github.com/AbrarZaved/EduTutor/internal/events"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/security"
)

// OTPService owns the one-time code lifecycle: throttled issuance with
// supersede semantics and atomic consumption. All flows that need a code
// (password reset, password change, email verification) go through it.
type OTPService struct {
	otpRepo    repository.OTPRepository
	throttle   repository.OTPThrottleRepository
	dispatcher events.NotificationDispatcher
	features   config.FeaturesConfig
	logger     *zap.Logger
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	throttle repository.OTPThrottleRepository,
	dispatcher events.NotificationDispatcher,
	features config.FeaturesConfig,
	logger *zap.Logger,
) *OTPService {
	return &OTPService{
		otpRepo:    otpRepo,
		throttle:   throttle,
		dispatcher: dispatcher,
		features:   features,
		logger:     logger.Named("otp_service"),
	}
}

var notificationTypeByPurpose = map[models.OTPPurpose]models.NotificationType{
	models.OTPPurposePasswordReset:     models.NotificationPasswordResetOTP,
	models.OTPPurposePasswordChange:    models.NotificationPasswordChangeOTP,
	models.OTPPurposeEmailVerification: models.NotificationEmailVerifyOTP,
}

// Issue generates a fresh code for (user, purpose), supersedes any prior
// active code, and hands a notification job to the dispatcher. The reissue
// cooldown is claimed before anything is written, so hammering the endpoint
// surfaces ErrOTPCooldown without touching the ledger. Dispatch failures are
// logged but never fail the issuance.
func (s *OTPService) Issue(ctx context.Context, user *models.User, purpose models.OTPPurpose) error {
	acquired, err := s.throttle.AcquireCooldown(ctx, user.ID, purpose, s.features.OTPResendCooldown)
	if err != nil {
		return fmt.Errorf("failed to check otp cooldown: %w", err)
	}
	if !acquired {
		return domainErrors.ErrOTPCooldown
	}

	code, err := security.GenerateNumericCode(s.features.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}

	now := time.Now()
	token := &models.OTPToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Purpose:   purpose,
		CodeHash:  security.HashToken(code),
		CreatedAt: now,
		ExpiresAt: now.Add(s.features.OTPExpiry),
	}
	if err := s.otpRepo.CreateSuperseding(ctx, token); err != nil {
		return fmt.Errorf("failed to store otp token: %w", err)
	}

	job := models.NotificationJob{
		JobKey:         fmt.Sprintf("%s:%s:%s", user.ID, purpose, token.ID),
		Type:           notificationTypeByPurpose[purpose],
		RecipientEmail: user.Email,
		RecipientName:  user.FullName(),
		Payload: map[string]string{
			"code":       code,
			"expires_at": token.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}
	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		s.logger.Error("failed to dispatch otp notification",
			zap.String("job_key", job.JobKey),
			zap.Error(err),
		)
	}

	s.logger.Info("otp issued",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", string(purpose)),
		zap.String("otp_id", token.ID.String()),
	)
	return nil
}

// VerifyAndConsume marks the active code matching (user, purpose, code) as
// consumed. Wrong, expired, consumed, superseded and never-issued codes all
// fail identically with ErrOTPInvalidOrExpired.
func (s *OTPService) VerifyAndConsume(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, code string) error {
	return s.otpRepo.Consume(ctx, userID, purpose, security.HashToken(code), time.Now())
}
