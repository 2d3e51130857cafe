// Package service holds the orchestration layer: each service composes the
// repositories, the security primitives and the notification dispatcher into
// the credential flows exposed over HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
	domainService "github.com/AbrarZaved/EduTutor/internal/domain/service"
	"github.com/AbrarZaved/EduTutor/internal/infrastructure/security"
)

// TokenService issues, validates, refreshes and revokes credentials. Access
// tokens are stateless; refresh tokens are the revocable half of the pair and
// every state check on them reads the store directly.
type TokenService struct {
	tokens      domainService.TokenManagementService
	refreshRepo repository.RefreshTokenRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewTokenService(
	tokens domainService.TokenManagementService,
	refreshRepo repository.RefreshTokenRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		tokens:      tokens,
		refreshRepo: refreshRepo,
		userRepo:    userRepo,
		logger:      logger.Named("token_service"),
	}
}

// IssueTokenPair mints an access token and a fresh refresh token for the
// user. The refresh token value leaves this method exactly once; only its
// hash is persisted.
func (s *TokenService) IssueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	accessToken, _, err := s.tokens.GenerateAccessToken(
		user.ID.String(), user.Email, string(user.Role), user.IsEmailVerified(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshValue, err := s.tokens.GenerateRefreshTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: security.HashToken(refreshValue),
		ExpiresAt: now.Add(s.tokens.GetRefreshTokenExpiry()),
		CreatedAt: now,
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresIn:    int(s.tokens.GetAccessTokenExpiry().Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// ValidateAccessToken checks signature, issuer, audience and expiry. No
// store access: an access token stays valid until it expires even if the
// session that produced it was revoked.
func (s *TokenService) ValidateAccessToken(tokenString string) (*domainService.Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// RevokeRefreshToken revokes the presented refresh token. A token that was
// already revoked yields ErrTokenAlreadyRevoked so callers can treat the
// repeat as idempotent; an unknown value yields ErrInvalidRefreshToken.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, plainToken, reason string) error {
	record, err := s.refreshRepo.FindByTokenHash(ctx, security.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrInvalidRefreshToken
		}
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.refreshRepo.Revoke(ctx, record.ID, time.Now(), reason); err != nil {
		return err
	}

	s.logger.Info("refresh token revoked",
		zap.String("token_id", record.ID.String()),
		zap.String("user_id", record.UserID.String()),
		zap.String("reason", reason),
	)
	return nil
}

// Refresh rotates the presented refresh token: the old token is revoked
// before the new pair is returned, so a given value can never refresh twice.
// Unknown, expired and revoked tokens all fail with ErrInvalidRefreshToken.
func (s *TokenService) Refresh(ctx context.Context, plainToken string) (*models.TokenPair, error) {
	now := time.Now()

	record, err := s.refreshRepo.FindByTokenHash(ctx, security.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if record.IsRevoked() || record.IsExpired(now) {
		return nil, domainErrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, domainErrors.ErrAccountDisabled
	}

	if err := s.refreshRepo.Revoke(ctx, record.ID, now, models.RevokeReasonRotated); err != nil {
		// A concurrent rotation or revocation won the race.
		if errors.Is(err, domainErrors.ErrTokenAlreadyRevoked) {
			return nil, domainErrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("refresh token rotated",
		zap.String("user_id", user.ID.String()),
		zap.String("old_token_id", record.ID.String()),
	)
	return pair, nil
}

// RevokeAllForUser invalidates every active session of the user. Used after
// password changes and resets. Idempotent.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason string) error {
	count, err := s.refreshRepo.RevokeAllForUser(ctx, userID, time.Now(), reason)
	if err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	if count > 0 {
		s.logger.Info("user sessions revoked",
			zap.String("user_id", userID.String()),
			zap.Int64("count", count),
			zap.String("reason", reason),
		)
	}
	return nil
}

// GetJWKS exposes the public key set for access-token verification.
func (s *TokenService) GetJWKS() (map[string]interface{}, error) {
	return s.tokens.GetJWKS()
}
