package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
	domainService "github.com/AbrarZaved/EduTutor/internal/domain/service"
	"github.com/AbrarZaved/EduTutor/internal/events"
)

// PasswordService implements every way a password gets replaced: the
// authenticated direct change, the OTP-confirmed change, and the two
// unauthenticated reset flows (code-based and link-based). All of them end
// the same way: new hash stored, every refresh token of the user revoked.
type PasswordService struct {
	userRepo     repository.UserRepository
	passwords    domainService.PasswordService
	tokens       domainService.TokenManagementService
	tokenService *TokenService
	otpService   *OTPService
	throttle     repository.OTPThrottleRepository
	denylist     repository.ResetLinkDenylist
	dispatcher   events.NotificationDispatcher
	features     config.FeaturesConfig
	security     config.SecurityConfig
	logger       *zap.Logger
}

func NewPasswordService(
	userRepo repository.UserRepository,
	passwords domainService.PasswordService,
	tokens domainService.TokenManagementService,
	tokenService *TokenService,
	otpService *OTPService,
	throttle repository.OTPThrottleRepository,
	denylist repository.ResetLinkDenylist,
	dispatcher events.NotificationDispatcher,
	features config.FeaturesConfig,
	security config.SecurityConfig,
	logger *zap.Logger,
) *PasswordService {
	return &PasswordService{
		userRepo:     userRepo,
		passwords:    passwords,
		tokens:       tokens,
		tokenService: tokenService,
		otpService:   otpService,
		throttle:     throttle,
		denylist:     denylist,
		dispatcher:   dispatcher,
		features:     features,
		security:     security,
		logger:       logger.Named("password_service"),
	}
}

func (s *PasswordService) checkPasswordStrength(password string) error {
	if len(password) < s.security.MinPasswordLength {
		return domainErrors.ErrWeakPassword
	}
	return nil
}

// applyNewPassword stores the new hash and invalidates every session. Shared
// tail of all change and reset flows.
func (s *PasswordService) applyNewPassword(ctx context.Context, user *models.User, newPassword, revokeReason string) error {
	if err := s.checkPasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.tokenService.RevokeAllForUser(ctx, user.ID, revokeReason); err != nil {
		s.logger.Error("failed to revoke sessions after password update",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
	s.logger.Info("password updated",
		zap.String("user_id", user.ID.String()),
		zap.String("reason", revokeReason),
	)
	return nil
}

// ChangeDirect replaces the password after verifying the current one.
func (s *PasswordService) ChangeDirect(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if !s.features.EnableProfileEdit {
		return domainErrors.ErrFeatureDisabled
	}
	ok, err := s.passwords.CheckPasswordHash(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return domainErrors.ErrInvalidCredentials
	}
	return s.applyNewPassword(ctx, user, newPassword, models.RevokeReasonPasswordChanged)
}

// RequestChangeOTP issues a password_change code to the authenticated user.
func (s *PasswordService) RequestChangeOTP(ctx context.Context, user *models.User) error {
	if !s.features.EnableProfileEdit {
		return domainErrors.ErrFeatureDisabled
	}
	return s.otpService.Issue(ctx, user, models.OTPPurposePasswordChange)
}

// ConfirmChangeOTP completes the OTP-confirmed change. The strength check
// runs before consumption so a rejected new password does not burn the code.
func (s *PasswordService) ConfirmChangeOTP(ctx context.Context, user *models.User, code, newPassword string) error {
	if !s.features.EnableProfileEdit {
		return domainErrors.ErrFeatureDisabled
	}
	if err := s.checkPasswordStrength(newPassword); err != nil {
		return err
	}
	if err := s.otpService.VerifyAndConsume(ctx, user.ID, models.OTPPurposePasswordChange, code); err != nil {
		return err
	}
	return s.applyNewPassword(ctx, user, newPassword, models.RevokeReasonPasswordChanged)
}

// RequestReset starts the unauthenticated code-based reset. The response is
// identical whether or not the email maps to an account; a code is issued
// only for existing active users.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	if !s.features.EnablePasswordReset {
		return domainErrors.ErrFeatureDisabled
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil
	}
	err = s.otpService.Issue(ctx, user, models.OTPPurposePasswordReset)
	if errors.Is(err, domainErrors.ErrOTPCooldown) {
		// A visible throttle on this unauthenticated path would confirm
		// the account exists. Respond as if a code was sent.
		s.logger.Warn("reset code requested during cooldown",
			zap.String("user_id", user.ID.String()))
		return nil
	}
	if err != nil {
		s.logger.Error("failed to issue reset code", zap.Error(err))
		return fmt.Errorf("failed to issue reset code: %w", err)
	}
	return nil
}

// ConfirmReset completes the code-based reset.
func (s *PasswordService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	if !s.features.EnablePasswordReset {
		return domainErrors.ErrFeatureDisabled
	}
	if err := s.checkPasswordStrength(newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Same failure as a wrong code: nothing reveals whether the
			// account exists.
			return domainErrors.ErrOTPInvalidOrExpired
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err := s.otpService.VerifyAndConsume(ctx, user.ID, models.OTPPurposePasswordReset, code); err != nil {
		return err
	}
	return s.applyNewPassword(ctx, user, newPassword, models.RevokeReasonPasswordReset)
}

// RequestResetLink starts the link-based reset: a signed, time-limited token
// is mailed instead of a numeric code. Enumeration defense matches
// RequestReset.
func (s *PasswordService) RequestResetLink(ctx context.Context, email string) error {
	if !s.features.EnablePasswordReset {
		return domainErrors.ErrFeatureDisabled
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil
	}

	acquired, err := s.throttle.AcquireCooldown(ctx, user.ID, models.OTPPurposeResetLink, s.features.OTPResendCooldown)
	if err != nil {
		return fmt.Errorf("failed to check issuance cooldown: %w", err)
	}
	if !acquired {
		// Same enumeration defense as RequestReset: the throttle hit must
		// look like a sent link.
		s.logger.Warn("reset link requested during cooldown",
			zap.String("user_id", user.ID.String()))
		return nil
	}

	token, claims, err := s.tokens.GenerateResetLinkToken(user.ID.String())
	if err != nil {
		return fmt.Errorf("failed to generate reset link token: %w", err)
	}

	job := models.NotificationJob{
		JobKey:         fmt.Sprintf("%s:reset_link:%s", user.ID, claims.ID),
		Type:           models.NotificationPasswordResetLink,
		RecipientEmail: user.Email,
		RecipientName:  user.FullName(),
		Payload: map[string]string{
			"token":      token,
			"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}
	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		s.logger.Error("failed to dispatch reset link notification",
			zap.String("job_key", job.JobKey),
			zap.Error(err),
		)
	}
	return nil
}

// ConfirmResetLink completes the link-based reset. The token's JTI is
// claimed in the denylist before any state changes, so a link is honored at
// most once even under concurrent submissions.
func (s *PasswordService) ConfirmResetLink(ctx context.Context, tokenString, newPassword string) error {
	if !s.features.EnablePasswordReset {
		return domainErrors.ErrFeatureDisabled
	}
	if err := s.checkPasswordStrength(newPassword); err != nil {
		return err
	}

	claims, err := s.tokens.ValidateResetLinkToken(tokenString)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return domainErrors.ErrExpiredToken
	}
	fresh, err := s.denylist.MarkUsed(ctx, claims.ID, ttl)
	if err != nil {
		return fmt.Errorf("failed to record reset link use: %w", err)
	}
	if !fresh {
		return domainErrors.ErrInvalidToken
	}

	userID, err := parseUserID(claims.UserID)
	if err != nil {
		return domainErrors.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return domainErrors.ErrAccountDisabled
	}

	return s.applyNewPassword(ctx, user, newPassword, models.RevokeReasonPasswordReset)
}
