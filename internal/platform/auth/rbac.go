package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
)

// RequireRole rejects anonymous requests with ErrUnauthenticated and requests
// whose principal holds none of roles with ErrForbidden. With no roles it only
// requires a session.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFromContext(c.Request().Context())
			if !p.Authenticated() {
				return apperr.ErrUnauthenticated
			}
			if len(roles) > 0 {
				if err := p.Require(roles...); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}
