package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/websocket"
)

// AdminManager is the back-office behaviour
type AdminManager interface {
	PendingBAs(ctx context.Context) ([]models.BAWithProfile, error)
	ApproveBA(ctx context.Context, baID string) (*models.BAProfile, error)
	RejectBA(ctx context.Context, baID, reason string) (*models.BAProfile, error)
	DashboardStats(ctx context.Context) (*models.AdminDashboardStats, error)
	CreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.CouponCode, error)
	AssignCoupon(ctx context.Context, req models.AssignCouponRequest) (*models.CouponAssignment, error)
	PendingWithdrawals(ctx context.Context) ([]models.WithdrawalWithBA, error)
	ApproveWithdrawal(ctx context.Context, id, notes string) (*models.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, id, notes string) (*models.WithdrawalRequest, error)
}

// AdminController handles the /api/admin endpoints
type AdminController struct {
	admin AdminManager
	hub   *websocket.Hub
}

func NewAdminController(admin AdminManager, hub *websocket.Hub) *AdminController {
	return &AdminController{admin: admin, hub: hub}
}

func (ac *AdminController) Dashboard(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := ac.admin.DashboardStats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (ac *AdminController) PendingBAs(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	bas, err := ac.admin.PendingBAs(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Pending BAs retrieved successfully", bas)
}

func (ac *AdminController) ApproveBA(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := ac.admin.ApproveBA(ctx, c.Param("baId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "BA approved successfully", profile)
}

func (ac *AdminController) RejectBA(c echo.Context) error {
	var req models.RejectBARequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := ac.admin.RejectBA(ctx, c.Param("baId"), req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "BA rejected", profile)
}

func (ac *AdminController) CreateCoupon(c echo.Context) error {
	var req models.CreateCouponRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	coupon, err := ac.admin.CreateCoupon(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Coupon created successfully", coupon)
}

func (ac *AdminController) AssignCoupon(c echo.Context) error {
	var req models.AssignCouponRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	assignment, err := ac.admin.AssignCoupon(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Coupon assigned successfully", assignment)
}

func (ac *AdminController) PendingWithdrawals(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	withdrawals, err := ac.admin.PendingWithdrawals(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Pending withdrawals retrieved successfully", withdrawals)
}

func (ac *AdminController) ApproveWithdrawal(c echo.Context) error {
	return ac.decideWithdrawal(c, true)
}

func (ac *AdminController) RejectWithdrawal(c echo.Context) error {
	return ac.decideWithdrawal(c, false)
}

func (ac *AdminController) decideWithdrawal(c echo.Context, approve bool) error {
	var req models.WithdrawalDecision
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		withdrawal *models.WithdrawalRequest
		err        error
		message    string
	)
	if approve {
		withdrawal, err = ac.admin.ApproveWithdrawal(ctx, c.Param("id"), req.AdminNotes)
		message = "Withdrawal approved"
	} else {
		withdrawal, err = ac.admin.RejectWithdrawal(ctx, c.Param("id"), req.AdminNotes)
		message = "Withdrawal rejected"
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, message, withdrawal)
}

// Events streams live booking and referral events to an admin dashboard
func (ac *AdminController) Events(c echo.Context) error {
	return websocket.HandleWebSocket(c, ac.hub, middleware.GetUserIDFromToken(c))
}
