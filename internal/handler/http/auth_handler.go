package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/service"
)

// AuthHandler serves registration, login, logout and the token endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
	logger       *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger.Named("auth_handler"),
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	user, pair, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondWithData(c, http.StatusCreated, gin.H{
		"user":   user.ToResponse(),
		"tokens": pair,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	RespondWithData(c, http.StatusOK, gin.H{
		"user":   user.ToResponse(),
		"tokens": pair,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "logged out")
}

// Refresh handles POST /api/v1/auth/token/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	pair, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, pair)
}

// Validate handles POST /api/v1/auth/token/validate. It reports claims for a
// valid token; the response never distinguishes why a token failed.
func (h *AuthHandler) Validate(c *gin.Context) {
	var req models.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error(), "invalid_request", h.logger)
		return
	}

	claims, err := h.tokenService.ValidateAccessToken(req.Token)
	if err != nil {
		RespondWithData(c, http.StatusOK, gin.H{"valid": false})
		return
	}
	RespondWithData(c, http.StatusOK, gin.H{
		"valid":          true,
		"user_id":        claims.UserID,
		"email":          claims.Email,
		"role":           claims.Role,
		"email_verified": claims.EmailVerified,
		"expires_at":     claims.ExpiresAt.Time,
	})
}

// JWKS handles GET /.well-known/jwks.json.
func (h *AuthHandler) JWKS(c *gin.Context) {
	jwks, err := h.tokenService.GetJWKS()
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, jwks)
}
