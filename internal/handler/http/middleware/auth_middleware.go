package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
	"github.com/AbrarZaved/EduTutor/internal/domain/service"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	GinContextClaimsKey = "claims"
	GinContextUserIDKey = "userID"
)

// AuthMiddleware authenticates requests by their bearer access token. The
// check is stateless: signature, issuer, audience and expiry only.
func AuthMiddleware(tokenManager service.TokenManagementService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authorization header required",
				"code":  "unauthorized",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authorization header format must be Bearer <token>",
				"code":  "unauthorized",
			})
			return
		}

		claims, err := tokenManager.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Warn("invalid access token", zap.Error(err))
			msg := "invalid token"
			if errors.Is(err, domainErrors.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": msg,
				"code":  "unauthorized",
			})
			return
		}

		c.Set(GinContextClaimsKey, claims)
		c.Set(GinContextUserIDKey, claims.UserID)
		c.Next()
	}
}
