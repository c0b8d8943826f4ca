package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/metrics"
)

// RequestMetrics counts requests by route template and status code
func RequestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			code := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				code = httpErr.Code
			}
			metrics.HTTPRequests.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(code)).Inc()
			return err
		}
	}
}
