package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports whether a backing dependency is reachable
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	checks map[string]HealthCheck
}

func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// Health returns 503 when any dependency check fails
func (hc *HealthController) Health(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	status := map[string]string{"status": "healthy"}
	code := http.StatusOK
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			status[name] = "unreachable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "connected"
	}
	return c.JSON(code, status)
}
