package routes

import (
	"time"

	"backoffice/api/handler"
	"backoffice/api/middleware"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Contacts       *handler.ContactHandler
	CartRequests   *handler.CartRequestHandler
	Products       *handler.ProductHandler
	Health         *handler.HealthHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       echo.MiddlewareFunc
	LoginRate      echo.MiddlewareFunc
}

type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Contacts     *handler.ContactHandler
	CartRequests *handler.CartRequestHandler
	Products     *handler.ProductHandler
	Health       *handler.HealthHandler
}

// NewRouter wires the limiters; a nil redis client keeps them in-process.
func NewRouter(e *echo.Echo, handlers Handlers, authMiddleware middleware.AuthMiddleware, rdb *redis.Client, logger logrus.FieldLogger) *Router {
	return &Router{
		Echo:           e,
		Auth:           handlers.Auth,
		Users:          handlers.Users,
		Contacts:       handlers.Contacts,
		CartRequests:   handlers.CartRequests,
		Products:       handlers.Products,
		Health:         handlers.Health,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewLimiter(rdb, "rl:auth", rate.Limit(5), 10, 5*time.Minute, logger),
		LoginRate:      middleware.NewLimiter(rdb, "rl:login", rate.Limit(2), 4, 10*time.Minute, logger),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	protect := r.AuthMiddleware.Protect

	if r.Health != nil {
		e.GET("/healthz", r.Health.Health)
	}

	auth := e.Group("/auth")
	auth.POST("/register", r.Auth.Register, r.AuthRate)
	auth.POST("/login", r.Auth.Login, r.LoginRate)
	auth.GET("/me", r.Auth.Me, protect)
	auth.POST("/logout", r.Auth.Logout, protect)
	auth.POST("/change-password", r.Auth.ChangePassword, r.AuthRate, protect)
	auth.POST("/forgot-password", r.Auth.PasswordForgot, r.LoginRate)
	auth.POST("/reset-password", r.Auth.PasswordReset, r.AuthRate)

	api := e.Group("/api")

	if r.Users != nil {
		users := api.Group("/admin/users", protect, middleware.Admin())
		users.GET("", r.Users.List)
		users.POST("", r.Users.Create)
		users.GET("/:id", r.Users.Get)
		users.PUT("/:id", r.Users.Update)
		users.DELETE("/:id", r.Users.Delete)
	}

	if r.Contacts != nil {
		staff := []echo.MiddlewareFunc{protect, middleware.AdminOrSalesman()}
		api.POST("/contact", r.Contacts.Create, r.AuthRate)
		api.GET("/contact", r.Contacts.List, staff...)
		api.PATCH("/contact/mark-read", r.Contacts.MarkRead, staff...)
		api.GET("/contact/:id", r.Contacts.Get, staff...)
		api.DELETE("/contact/:id", r.Contacts.Delete, staff...)
	}

	if r.CartRequests != nil {
		api.POST("/cart-request", r.CartRequests.Submit, r.AuthRate)
		api.GET("/cart-request", r.CartRequests.List, protect, middleware.AdminOrSalesman())
		api.PATCH("/cart-request/:id/status", r.CartRequests.UpdateStatus, protect, middleware.AdminOrSalesman())
		api.DELETE("/cart-request/:id", r.CartRequests.Delete, protect, middleware.Admin())
	}

	if r.Products != nil {
		api.GET("/products", r.Products.List, r.AuthMiddleware.OptionalProtect)
		api.GET("/products/:id", r.Products.Get, r.AuthMiddleware.OptionalProtect)
		api.POST("/products", r.Products.Create, protect, middleware.AdminOrSalesman())
	}
}
