package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that rejects callers whose role is not
// in the given list. With no roles it only requires authentication.
// There is no implicit admin bypass; routes that admit admins list the
// role explicitly.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "authorization token not provided")
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, required := range roles {
				if identity.Role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("role %s is not allowed, required: %s",
					identity.Role, strings.Join(roles, " or ")))
		}
	}
}
