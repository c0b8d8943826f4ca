// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/models"
)

// RequireRole checks that the caller holds an access token with one of the allowed roles
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil || claims.TokenType != AccessToken {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: access token required",
				})
			}

			for _, role := range allowedRoles {
				if claims.Role == role {
					return next(c)
				}
			}

			c.Logger().Warnf("Access denied for role %s on %s", claims.Role, c.Request().URL.Path)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}
