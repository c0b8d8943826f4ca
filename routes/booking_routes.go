package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// RegisterBookingRoutes sets up the public booking and commission routes
func RegisterBookingRoutes(e *echo.Echo, bookingController *controllers.BookingController, commissionController *controllers.CommissionController, jwt *middleware.JWTManager) {
	e.POST("/api/bookings", bookingController.CreateBooking)
	e.GET("/api/bookings/:id", bookingController.GetBooking)

	commission := e.Group("/api/commission")
	commission.GET("/info", commissionController.GetCommissionInfo)

	settings := commission.Group("/settings")
	settings.Use(jwt.Middleware())
	settings.Use(middleware.RequireRole(models.RoleAdmin))
	settings.GET("", commissionController.GetSettings)
	settings.PUT("", commissionController.UpdateSettings)
}
