package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vastuconnect/booking_backend/controllers"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// RegisterAdminRoutes sets up all admin-related routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, bookingController *controllers.BookingController, jwt *middleware.JWTManager) {
	admin := e.Group("/api/admin")
	admin.Use(jwt.Middleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("/dashboard", adminController.Dashboard)
	admin.GET("/ws", adminController.Events)

	// Bookings
	admin.GET("/bookings", bookingController.ListBookings)
	admin.GET("/bookings/stats", bookingController.BookingStats)
	admin.PATCH("/bookings/:id", bookingController.UpdateBooking)

	// KYC review
	admin.GET("/pending-bas", adminController.PendingBAs)
	admin.POST("/approve-ba/:baId", adminController.ApproveBA)
	admin.POST("/reject-ba/:baId", adminController.RejectBA)

	// Coupons
	admin.POST("/coupons", adminController.CreateCoupon)
	admin.POST("/coupons/assign", adminController.AssignCoupon)

	// Withdrawals
	admin.GET("/pending-withdrawals", adminController.PendingWithdrawals)
	admin.POST("/withdrawals/:id/approve", adminController.ApproveWithdrawal)
	admin.POST("/withdrawals/:id/reject", adminController.RejectWithdrawal)
}
