package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/api/handler"
	apiMiddleware "backoffice/api/middleware"
	"backoffice/api/routes"
	"backoffice/config"
	"backoffice/internal/reporting"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	reporter, err := reporting.NewSentryReporter(cfg.SentryDSN, cfg.AppEnv, cfg.Release)
	if err != nil {
		logger.WithError(err).Warn("sentry disabled")
		reporter = reporting.Nop{}
	}
	defer reporter.Flush(2 * time.Second)

	db, err := config.ConnectionDb(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	rdb := config.NewRedisClient(cfg, logger)

	mailer, closeMailer, err := config.NewMailer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("mailer")
	}
	defer func() {
		if err := closeMailer(); err != nil {
			logger.WithError(err).Warn("close mailer")
		}
	}()

	validate := validator.New()

	jwtManager := &utils.JWTManager{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTExpiresIn,
	}
	sessionIssuer := service.JWTSessionIssuer{Manager: jwtManager}

	userRepo := repository.NewUserRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)
	contactRepo := repository.NewContactRepository(db)
	cartRepo := repository.NewCartRequestRepository(db)
	productRepo := repository.NewProductRepository(db)

	passwordHasher := service.BcryptPasswordHasher{Cost: cfg.BcryptCost}
	resetTokens := service.NewResetTokenService(userRepo, service.RealClock{}, cfg.ResetTokenTTL)

	authService := service.NewAuthService(
		userRepo,
		securityRepo,
		resetTokens,
		mailer,
		passwordHasher,
		sessionIssuer,
		logger,
		reporter,
		service.AuthConfig{
			MailTimeout:       cfg.MailTimeout,
			AllowRegisterRole: cfg.RegisterAllowRole,
			AppBaseURL:        cfg.AppBaseURL,
			ResetPasswordPath: cfg.ResetPasswordPath,
		},
	)

	handlers := routes.Handlers{
		Auth:         handler.NewAuthHandler(authService, validate, logger, reporter),
		Users:        handler.NewUserHandler(service.NewUserAdminService(userRepo, passwordHasher), validate, logger, reporter),
		Contacts:     handler.NewContactHandler(service.NewContactService(contactRepo), validate, logger, reporter),
		CartRequests: handler.NewCartRequestHandler(service.NewCartRequestService(cartRepo), validate, logger, reporter),
		Products:     handler.NewProductHandler(service.NewProductService(productRepo), validate, logger, reporter),
		Health:       &handler.HealthHandler{DB: db},
	}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: jwtManager, Users: userRepo, Logger: logger}
	router := routes.NewRouter(app, handlers, authMiddleware, rdb, logger)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "env": cfg.AppEnv}).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
	authService.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited")
}
