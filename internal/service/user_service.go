package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
)

// UserService serves profile reads and the self-service profile update.
// Email and role are not editable here.
type UserService struct {
	userRepo repository.UserRepository
	features config.FeaturesConfig
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, features config.FeaturesConfig, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		features: features,
		logger:   logger.Named("user_service"),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile applies the provided name fields. Nil fields are left
// untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	if !s.features.EnableProfileEdit {
		return nil, domainErrors.ErrFeatureDisabled
	}
	user, err := s.userRepo.UpdateProfile(ctx, userID, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", zap.String("user_id", userID.String()))
	return user, nil
}
