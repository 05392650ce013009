package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/entity"
	"backoffice/internal/repository"
	"backoffice/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgTokenMissing = "Not authorized, token missing"
	msgTokenInvalid = "Not authorized, token invalid or expired"
	msgUserNotFound = "User not found"
)

type AuthMiddleware struct {
	JWT    *utils.JWTManager
	Users  repository.UserRepository
	Logger logrus.FieldLogger
}

// Protect rejects the request unless it carries a valid session token for an
// existing active user. The user is reloaded on each request so role and
// status changes apply immediately.
func (m AuthMiddleware) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request())
		if token == "" || m.JWT == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, msgTokenMissing)
		}
		claims, err := m.JWT.Verify(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
		}
		user, err := m.loadUser(c, claims)
		if err != nil {
			m.logger().WithError(err).Error("auth: load user")
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotFound)
		}
		SetCurrentUser(c, user)
		return next(c)
	}
}

// OptionalProtect attaches the user when the token checks out and otherwise
// lets the request through as a guest.
func (m AuthMiddleware) OptionalProtect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearerToken(c.Request())
		if token == "" || m.JWT == nil {
			return next(c)
		}
		claims, err := m.JWT.Verify(token)
		if err != nil {
			return next(c)
		}
		user, err := m.loadUser(c, claims)
		if err != nil {
			m.logger().WithError(err).Warn("auth: optional user lookup failed, continuing as guest")
			return next(c)
		}
		if user != nil {
			SetCurrentUser(c, user)
		}
		return next(c)
	}
}

func (m AuthMiddleware) loadUser(c echo.Context, claims *utils.Claims) (*entity.User, error) {
	userID, err := uuid.Parse(claims.ID)
	if err != nil || m.Users == nil {
		return nil, nil
	}
	user, err := m.Users.FindByID(c.Request().Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, nil
	}
	return user, nil
}

func (m AuthMiddleware) logger() logrus.FieldLogger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}
	return m.Logger
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
