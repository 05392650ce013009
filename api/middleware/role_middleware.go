package middleware

import (
	"net/http"

	"backoffice/internal/entity"

	"github.com/labstack/echo/v4"
)

// RequireRole must run after Protect. Requests without a user or with a role
// outside roles get 403 with message.
func RequireRole(message string, roles ...entity.UserRole) echo.MiddlewareFunc {
	allowed := make(map[entity.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			if _, ok := allowed[user.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			return next(c)
		}
	}
}

func Admin() echo.MiddlewareFunc {
	return RequireRole("Admin access required", entity.UserRoleAdmin)
}

func Salesman() echo.MiddlewareFunc {
	return RequireRole("Salesman access required", entity.UserRoleSalesman)
}

func AdminOrSalesman() echo.MiddlewareFunc {
	return RequireRole("Admin or Salesman access required", entity.UserRoleAdmin, entity.UserRoleSalesman)
}
