package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/service"
)

// PasswordHandler serves the unauthenticated recovery endpoints: the two
// reset flows and email verification confirm. Request endpoints answer
// identically whether or not the email maps to an account.
type PasswordHandler struct {
	passwordService     *service.PasswordService
	verificationService *service.VerificationService
	logger              *zap.Logger
}

func NewPasswordHandler(
	passwordService *service.PasswordService,
	verificationService *service.VerificationService,
	logger *zap.Logger,
) *PasswordHandler {
	return &PasswordHandler{
		passwordService:     passwordService,
		verificationService: verificationService,
		logger:              logger.Named("password_handler"),
	}
}

// ForgotPassword handles POST /api/v1/auth/password/forgot.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.RequestReset(c.Request.Context(), req.Email); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "if the account exists, a reset code has been sent")
}

// ResetPassword handles POST /api/v1/auth/password/reset.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.ConfirmReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "password reset")
}

// ForgotPasswordLink handles POST /api/v1/auth/password/forgot-link.
func (h *PasswordHandler) ForgotPasswordLink(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.RequestResetLink(c.Request.Context(), req.Email); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "if the account exists, a reset link has been sent")
}

// ResetPasswordLink handles POST /api/v1/auth/password/reset-link.
func (h *PasswordHandler) ResetPasswordLink(c *gin.Context) {
	var req models.ResetPasswordLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.passwordService.ConfirmResetLink(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "password reset")
}

// ConfirmEmail handles POST /api/v1/auth/email/confirm.
func (h *PasswordHandler) ConfirmEmail(c *gin.Context) {
	var req models.ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.verificationService.ConfirmByEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "email verified")
}
