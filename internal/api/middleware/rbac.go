package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated caller's
// role is one of roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return domain.ErrAuthenticationRequired
			}
			if _, ok := allowed[claims.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
