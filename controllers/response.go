package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/services"
)

const requestTimeout = 10 * time.Second

// requestContext bounds store calls made on behalf of a request
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// respondError maps a service error onto the response envelope
func respondError(c echo.Context, err error) error {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		config.LogError(config.GetLogger(), "controllers", c.Path(), "unhandled error", nil, err)
		return respond(c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	case services.KindForbidden:
		status = http.StatusForbidden
	default:
		config.LogError(config.GetLogger(), "controllers", c.Path(), appErr.Message, nil, err)
	}
	return respond(c, status, appErr.Message, nil)
}

// bindAndValidate decodes the body into req and runs its validate tags.
// On failure it returns the message to show the caller.
func bindAndValidate(c echo.Context, req interface{}) (string, bool) {
	if err := c.Bind(req); err != nil {
		return "Invalid request body", false
	}
	if err := c.Validate(req); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return "Invalid value for " + fe.Field() + " (" + fe.Tag() + ")"
	}
	return "Validation failed: " + err.Error()
}

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
