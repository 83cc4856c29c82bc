package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
)

// RBAC enforces role-based access control on the resolved profile.
// It must run after RequireProfile.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, _ := c.Get(ProfileKey).(*domain.Profile)
			if profile == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, ok := allowed[profile.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
