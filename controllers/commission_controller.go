package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/models"
)

type CommissionManager interface {
	GetSettings(ctx context.Context) (models.CommissionSettings, error)
	UpdateSettings(ctx context.Context, req models.UpdateCommissionSettingsRequest) (models.CommissionSettings, error)
	GetCommissionInfo(ctx context.Context) (models.CommissionInfo, error)
}

// CommissionController exposes the commission settings
type CommissionController struct {
	commission CommissionManager
}

func NewCommissionController(commission CommissionManager) *CommissionController {
	return &CommissionController{commission: commission}
}

func (cc *CommissionController) GetSettings(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := cc.commission.GetSettings(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Commission settings retrieved successfully", settings)
}

func (cc *CommissionController) UpdateSettings(c echo.Context) error {
	var req models.UpdateCommissionSettingsRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	settings, err := cc.commission.UpdateSettings(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Commission settings updated successfully", settings)
}

// GetCommissionInfo is public
func (cc *CommissionController) GetCommissionInfo(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	info, err := cc.commission.GetCommissionInfo(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Commission info retrieved successfully", info)
}
