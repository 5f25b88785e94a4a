package routes

import (
	"github.com/gin-gonic/gin"

	"techwiz/internal/authz"
	"techwiz/internal/handlers"
	"techwiz/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/login-admin", authHandler.LoginAdmin)
	r.POST("/token/refresh", authHandler.RefreshToken)
	r.GET("/get-pin", authHandler.GetPin)
	r.POST("/sign-up", authHandler.Signup)
	r.POST("/forgot-password", authHandler.ForgotPassword)
	r.POST("/send-reset-password-email", authHandler.SendResetPasswordEmail)
	r.POST("/reset-password", authHandler.ResetPassword)

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	r.POST("/logout", authHandler.Logout)
	r.POST("/change-password", authHandler.ChangePassword)
	r.POST("/devices", userHandler.RegisterDevice)

	// USERS
	users := r.Group("/users")
	{
		users.GET("/me", userHandler.Me)
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.GetByID)

		admin := users.Group("", middleware.RequireRoles(authz.RoleAdmin))
		{
			admin.POST("/", userHandler.Create)
			admin.PUT("/:id", userHandler.Update)
			admin.DELETE("/:id", userHandler.Delete)
		}
	}

	// REPORTS (staff)
	reports := r.Group("/reports",
		middleware.RequireRoles(authz.RoleTeacher, authz.RoleAdmin),
	)
	{
		reports.GET("/report-card/:id", reportHandler.ReportCard)
		reports.GET("/report-card/:id/pdf", reportHandler.ReportCardPDF)
	}

	return r
}
