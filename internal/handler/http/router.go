package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/service"
	"github.com/AbrarZaved/EduTutor/internal/handler/http/middleware"
)

// registerValidations adds the custom binding rules used by request DTOs.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
			switch models.UserRole(fl.Field().String()) {
			case models.RoleStudent, models.RoleTeacher, models.RoleParent, models.RoleSchoolAdmin:
				return true
			}
			return false
		})
	}
}

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	AuthHandler     *AuthHandler
	MeHandler       *MeHandler
	PasswordHandler *PasswordHandler
	TokenManager    service.TokenManagementService
	Logger          *zap.Logger
}

// NewRouter builds the gin engine with the full middleware chain and route
// table.
func NewRouter(deps RouterDeps) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(deps.Logger),
		middleware.LoggingMiddleware(deps.Logger),
		middleware.CorsMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/.well-known/jwks.json", deps.AuthHandler.JWKS)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
		auth.POST("/token/refresh", deps.AuthHandler.Refresh)
		auth.POST("/token/validate", deps.AuthHandler.Validate)

		auth.POST("/password/forgot", deps.PasswordHandler.ForgotPassword)
		auth.POST("/password/reset", deps.PasswordHandler.ResetPassword)
		auth.POST("/password/forgot-link", deps.PasswordHandler.ForgotPasswordLink)
		auth.POST("/password/reset-link", deps.PasswordHandler.ResetPasswordLink)
		auth.POST("/email/confirm", deps.PasswordHandler.ConfirmEmail)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware(deps.TokenManager, deps.Logger))
		{
			authed.POST("/logout", deps.AuthHandler.Logout)
			authed.GET("/me", deps.MeHandler.GetProfile)
			authed.PUT("/me", deps.MeHandler.UpdateProfile)
			authed.POST("/password/change", deps.MeHandler.ChangePassword)
			authed.POST("/password/change/request-otp", deps.MeHandler.RequestChangeOTP)
			authed.POST("/password/change/confirm-otp", deps.MeHandler.ConfirmChangeOTP)
			authed.POST("/email/request", deps.MeHandler.RequestEmailVerification)
		}
	}

	return router
}
