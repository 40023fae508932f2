package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// RBAC admits requests whose account role (admin or member) is one of
// allowed. It must run after Auth. Marketplace roles are not checked here;
// services check them against the user record.
func RBAC(allowed ...string) echo.MiddlewareFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := set[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
