package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

type AuthManager interface {
	RegisterBA(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.UserSummary, error)
}

// AuthController handles account endpoints
type AuthController struct {
	auth AuthManager
}

func NewAuthController(auth AuthManager) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a BA account
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ac.auth.RegisterBA(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Registration successful. Please complete your BA profile.", result)
}

func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ac.auth.Login(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Refresh(c echo.Context) error {
	var req models.RefreshRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ac.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Token refreshed", result)
}

func (ac *AuthController) Me(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := ac.auth.Me(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User retrieved successfully", user)
}
