// Package http exposes the identity service over gin. Handlers bind and
// validate requests, call the orchestration services, and translate domain
// failures into status codes; no business rule lives here.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/AbrarZaved/EduTutor/internal/domain/errors"
)

// ResponseError is the error envelope of the API.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError sends an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message, errorCode string, logger *zap.Logger) {
	logger.Warn("api error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

// RespondWithData sends a success response carrying data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage sends a success response carrying only a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// errorCode returns the stable error code and the client-facing message for
// a classified domain failure. The message is the sentinel's text; wrapped
// infrastructure detail never reaches the client.
func errorCode(err error) (string, string) {
	switch {
	case errors.Is(err, domainErrors.ErrFeatureDisabled):
		return "feature_disabled", domainErrors.ErrFeatureDisabled.Error()
	case errors.Is(err, domainErrors.ErrAccountDisabled):
		return "account_disabled", domainErrors.ErrAccountDisabled.Error()
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return "invalid_credentials", domainErrors.ErrInvalidCredentials.Error()
	case errors.Is(err, domainErrors.ErrOTPInvalidOrExpired):
		return "invalid_code", domainErrors.ErrOTPInvalidOrExpired.Error()
	case errors.Is(err, domainErrors.ErrOTPCooldown):
		return "too_many_requests", domainErrors.ErrOTPCooldown.Error()
	case errors.Is(err, domainErrors.ErrWeakPassword):
		return "weak_password", domainErrors.ErrWeakPassword.Error()
	case errors.Is(err, domainErrors.ErrEmailTaken):
		return "email_taken", domainErrors.ErrEmailTaken.Error()
	case errors.Is(err, domainErrors.ErrAlreadyVerified):
		return "already_verified", domainErrors.ErrAlreadyVerified.Error()
	case errors.Is(err, domainErrors.ErrInvalidRequest):
		return "invalid_request", domainErrors.ErrInvalidRequest.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found", domainErrors.ErrNotFound.Error()
	case errors.Is(err, domainErrors.ErrConflict):
		return "conflict", domainErrors.ErrConflict.Error()
	case domainErrors.IsUnauthorized(err):
		return "invalid_token", "invalid or expired token"
	}
	return "internal_error", "internal server error"
}

// RespondWithDomainError maps a service failure onto a status code and a
// stable error code. The status family comes from the error classification
// helpers, so a new sentinel lands in the right family the moment it joins a
// class.
func RespondWithDomainError(c *gin.Context, err error, logger *zap.Logger) {
	status := http.StatusInternalServerError
	switch {
	case domainErrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case domainErrors.IsForbidden(err):
		status = http.StatusForbidden
	case domainErrors.IsTooManyRequests(err):
		status = http.StatusTooManyRequests
	case domainErrors.IsConflict(err):
		status = http.StatusConflict
	case domainErrors.IsBadRequest(err):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	}

	code, message := errorCode(err)
	if status == http.StatusInternalServerError {
		logger.Error("unhandled service error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}
	RespondWithError(c, status, message, code, logger)
}
