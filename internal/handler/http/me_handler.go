package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/handler/http/middleware"
	"github.com/AbrarZaved/EduTutor/internal/service"
)

// MeHandler serves the authenticated self-service endpoints: profile,
// password change and email verification requests.
type MeHandler struct {
	userService         *service.UserService
	passwordService     *service.PasswordService
	verificationService *service.VerificationService
	logger              *zap.Logger
}

func NewMeHandler(
	userService *service.UserService,
	passwordService *service.PasswordService,
	verificationService *service.VerificationService,
	logger *zap.Logger,
) *MeHandler {
	return &MeHandler{
		userService:         userService,
		passwordService:     passwordService,
		verificationService: verificationService,
		logger:              logger.Named("me_handler"),
	}
}

// currentUser loads the authenticated user from the claims set by the auth
// middleware. A missing or stale subject aborts with 401.
func (h *MeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	raw, ok := c.Get(middleware.GinContextUserIDKey)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "authentication required", "unauthorized", h.logger)
		return nil, false
	}
	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		RespondWithError(c, http.StatusUnauthorized, "invalid token subject", "unauthorized", h.logger)
		return nil, false
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return nil, false
	}
	return user, true
}

// GetProfile handles GET /api/v1/auth/me.
func (h *MeHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	RespondWithData(c, http.StatusOK, user.ToResponse())
}

// UpdateProfile handles PUT /api/v1/auth/me.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, updated.ToResponse())
}

// ChangePassword handles POST /api/v1/auth/password/change.
func (h *MeHandler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.ChangeDirect(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "password changed")
}

// RequestChangeOTP handles POST /api/v1/auth/password/change/request-otp.
func (h *MeHandler) RequestChangeOTP(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.passwordService.RequestChangeOTP(c.Request.Context(), user); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "confirmation code sent")
}

// ConfirmChangeOTP handles POST /api/v1/auth/password/change/confirm-otp.
func (h *MeHandler) ConfirmChangeOTP(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.ConfirmChangeOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.ConfirmChangeOTP(c.Request.Context(), user, req.Code, req.NewPassword); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "password changed")
}

// RequestEmailVerification handles POST /api/v1/auth/email/request.
func (h *MeHandler) RequestEmailVerification(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.verificationService.Request(c.Request.Context(), user); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "verification code sent")
}
