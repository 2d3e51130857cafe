package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/config"
	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
)

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	first := "Ada"

	repo := new(MockUserRepository)
	repo.On("UpdateProfile", ctx, userID, &first, (*string)(nil)).
		Return(&models.User{ID: userID, FirstName: first}, nil).Once()

	svc := NewUserService(repo, config.FeaturesConfig{EnableProfileEdit: true}, zap.NewNop())
	user, err := svc.UpdateProfile(ctx, userID, models.UpdateProfileRequest{FirstName: &first})

	assert.NoError(t, err)
	assert.Equal(t, first, user.FirstName)
	repo.AssertExpectations(t)
}

func TestUserService_UpdateProfile_FeatureDisabled(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, config.FeaturesConfig{EnableProfileEdit: false}, zap.NewNop())

	first := "Ada"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), models.UpdateProfileRequest{FirstName: &first})

	assert.ErrorIs(t, err, domainErrors.ErrFeatureDisabled)
	repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, userID).Return(&models.User{ID: userID}, nil).Once()

	svc := NewUserService(repo, config.FeaturesConfig{}, zap.NewNop())
	user, err := svc.GetProfile(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}
