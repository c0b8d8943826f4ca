package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// RegisterAuthRoutes sets up account routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, jwt *middleware.JWTManager) {
	auth := e.Group("/api/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.Refresh)

	protected := auth.Group("")
	protected.Use(jwt.Middleware())
	protected.Use(middleware.RequireRole(models.RoleAdmin, models.RoleBA))
	protected.GET("/me", authController.Me)
}
