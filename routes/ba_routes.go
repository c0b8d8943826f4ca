package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// RegisterBARoutes sets up business associate self-service routes
func RegisterBARoutes(e *echo.Echo, baController *controllers.BAController, bookingController *controllers.BookingController, jwt *middleware.JWTManager) {
	ba := e.Group("/api/ba")
	ba.Use(jwt.Middleware())
	ba.Use(middleware.RequireRole(models.RoleBA))

	ba.POST("/profile", baController.CreateProfile)
	ba.GET("/profile", baController.GetProfile)
	ba.PUT("/profile", baController.UpdateProfile)

	ba.GET("/referral-info", baController.ReferralInfo)
	ba.GET("/referral-stats", baController.ReferralStats)
	ba.GET("/referral-qrcode", baController.ReferralQRCode)
	ba.GET("/bookings", bookingController.ListBABookings)

	ba.GET("/withdrawals", baController.WithdrawalHistory)
	ba.POST("/withdrawals", baController.RequestWithdrawal)

	ba.GET("/coupons", baController.AssignedCoupons)
	ba.GET("/coupons/:couponId", baController.CouponDetails)
}
