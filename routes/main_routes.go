package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
)

// Controllers bundles every HTTP handler set the API exposes
type Controllers struct {
	Auth       *controllers.AuthController
	Booking    *controllers.BookingController
	Commission *controllers.CommissionController
	BA         *controllers.BAController
	Admin      *controllers.AdminController
	Health     *controllers.HealthController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, ctrl Controllers, jwt *middleware.JWTManager) {
	e.Match([]string{"GET", "HEAD"}, "/health", ctrl.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	RegisterAuthRoutes(e, ctrl.Auth, jwt)
	RegisterBookingRoutes(e, ctrl.Booking, ctrl.Commission, jwt)
	RegisterBARoutes(e, ctrl.BA, ctrl.Booking, jwt)
	RegisterAdminRoutes(e, ctrl.Admin, ctrl.Booking, jwt)
}
