package middleware

import (
	"backoffice/internal/entity"

	"github.com/labstack/echo/v4"
)

const contextUserKey = "auth_user"

func SetCurrentUser(c echo.Context, user *entity.User) {
	c.Set(contextUserKey, user)
}

// CurrentUser returns the user attached by Protect or OptionalProtect.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(contextUserKey).(*entity.User)
	return user, ok && user != nil
}
