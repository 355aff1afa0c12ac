package jwtmiddleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmoliveira/quotation-service/internal/service/token"
)

// RequireAdmin gates triage and catalog-write routes. Handlers behind
// it can trust that an authenticated admin principal is present.
func RequireAdmin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token not provided")
			}

			username, err := token.ParseAdminToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			c.Set("admin", username)
			return next(c)
		}
	}
}
