package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// BAManager is the self-service behaviour available to a business associate
type BAManager interface {
	CreateProfile(ctx context.Context, userID string, req models.CreateBAProfileRequest) (*models.BAWithProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.BAWithProfile, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateBAProfileRequest) (*models.BAWithProfile, error)
	ReferralInfo(ctx context.Context, userID string) (*models.ReferralInfo, error)
	ReferralStats(ctx context.Context, userID string) (*models.ReferralStats, error)
	ReferralQRCode(ctx context.Context, userID string) ([]byte, string, error)
	WithdrawalHistory(ctx context.Context, userID string, limit, offset int64) (*models.WithdrawalHistory, error)
	RequestWithdrawal(ctx context.Context, userID string, amount float64) (*models.WithdrawalRequest, error)
	AssignedCoupons(ctx context.Context, userID string) ([]models.AssignedCoupon, error)
	CouponDetails(ctx context.Context, userID, couponID string) (*models.AssignedCoupon, error)
}

// BAController handles the /api/ba endpoints for the calling BA
type BAController struct {
	ba BAManager
}

func NewBAController(ba BAManager) *BAController {
	return &BAController{ba: ba}
}

func (bc *BAController) CreateProfile(c echo.Context) error {
	var req models.CreateBAProfileRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := bc.ba.CreateProfile(ctx, middleware.GetUserIDFromToken(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "BA profile submitted for review", profile)
}

func (bc *BAController) GetProfile(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := bc.ba.GetProfile(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "BA profile retrieved successfully", profile)
}

func (bc *BAController) UpdateProfile(c echo.Context) error {
	var req models.UpdateBAProfileRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := bc.ba.UpdateProfile(ctx, middleware.GetUserIDFromToken(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "BA profile updated successfully", profile)
}

func (bc *BAController) ReferralInfo(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	info, err := bc.ba.ReferralInfo(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral info retrieved successfully", info)
}

func (bc *BAController) ReferralStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := bc.ba.ReferralStats(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Referral stats retrieved successfully", stats)
}

// ReferralQRCode serves the BA's referral link as a PNG image
func (bc *BAController) ReferralQRCode(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	img, code, err := bc.ba.ReferralQRCode(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set("Content-Disposition", "inline; filename=referral-"+code+".png")
	return c.Blob(http.StatusOK, "image/png", img)
}

func (bc *BAController) WithdrawalHistory(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	ctx, cancel := requestContext(c)
	defer cancel()

	history, err := bc.ba.WithdrawalHistory(ctx, middleware.GetUserIDFromToken(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Withdrawal history retrieved successfully", history)
}

func (bc *BAController) RequestWithdrawal(c echo.Context) error {
	var req models.WithdrawalRequestBody
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	withdrawal, err := bc.ba.RequestWithdrawal(ctx, middleware.GetUserIDFromToken(c), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Withdrawal request submitted", withdrawal)
}

func (bc *BAController) AssignedCoupons(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	coupons, err := bc.ba.AssignedCoupons(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupons retrieved successfully", coupons)
}

func (bc *BAController) CouponDetails(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	coupon, err := bc.ba.CouponDetails(ctx, middleware.GetUserIDFromToken(c), c.Param("couponId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Coupon retrieved successfully", coupon)
}
