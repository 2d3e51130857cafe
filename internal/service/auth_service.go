package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
	domainService "github.com/AbrarZaved/EduTutor/internal/domain/service"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	userRepo     repository.UserRepository
	passwords    domainService.PasswordService
	tokenService *TokenService
	otpService   *OTPService
	security     config.SecurityConfig
	logger       *zap.Logger

	// dummyHash is compared against on login for unknown emails so the
	// response time does not reveal whether an account exists.
	dummyHash string
}

func NewAuthService(
	userRepo repository.UserRepository,
	passwords domainService.PasswordService,
	tokenService *TokenService,
	otpService *OTPService,
	security config.SecurityConfig,
	logger *zap.Logger,
) (*AuthService, error) {
	dummyHash, err := passwords.HashPassword("this-password-is-never-accepted")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &AuthService{
		userRepo:     userRepo,
		passwords:    passwords,
		tokenService: tokenService,
		otpService:   otpService,
		security:     security,
		logger:       logger.Named("auth_service"),
		dummyHash:    dummyHash,
	}, nil
}

func (s *AuthService) checkPasswordStrength(password string) error {
	if len(password) < s.security.MinPasswordLength {
		return domainErrors.ErrWeakPassword
	}
	return nil
}

var validRoles = map[models.UserRole]bool{
	models.RoleStudent:     true,
	models.RoleTeacher:     true,
	models.RoleParent:      true,
	models.RoleSchoolAdmin: true,
}

// Register creates an unverified account and logs it in immediately. An
// email-verification code is issued fire-and-forget; a delivery problem never
// fails the registration.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, *models.TokenPair, error) {
	if err := s.checkPasswordStrength(req.Password); err != nil {
		return nil, nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !validRoles[role] {
		return nil, nil, fmt.Errorf("%w: unknown role %q", domainErrors.ErrInvalidRequest, req.Role)
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokenService.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.otpService.Issue(ctx, user, models.OTPPurposeEmailVerification); err != nil {
		s.logger.Warn("failed to issue verification code at registration",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return user, pair, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller; the hash comparison runs
// either way so the two paths cost the same.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *models.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			_, _ = s.passwords.CheckPasswordHash(req.Password, s.dummyHash)
			return nil, nil, domainErrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.passwords.CheckPasswordHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, nil, domainErrors.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, nil, domainErrors.ErrAccountDisabled
	}

	pair, err := s.tokenService.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Logout revokes the presented refresh token. Revoking a token that is
// already revoked is reported as success; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenService.RevokeRefreshToken(ctx, refreshToken, models.RevokeReasonLogout)
	if errors.Is(err, domainErrors.ErrTokenAlreadyRevoked) {
		return nil
	}
	return err
}
