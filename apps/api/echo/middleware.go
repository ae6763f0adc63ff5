package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// adminMiddleware reserves a route for admin users.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "permission denied")
			}
			return next(ctx)
		}
	}
}

// studentMiddleware reserves a route for student users.
func studentMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsStudent {
				return echo.NewHTTPError(http.StatusForbidden, "permission denied")
			}
			return next(ctx)
		}
	}
}
