package handler

import (
	"net/http"

	"backoffice/api/middleware"
	"backoffice/internal/dto"
	"backoffice/internal/reporting"
	"backoffice/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgRegisterFields       = "Name, email, and password required"
	msgLoginFields          = "Email and password required"
	msgPasswordFields       = "All password fields are required"
	msgNewPasswordsMismatch = "New passwords do not match"
	msgEmailRequired        = "Email is required"
	msgResetFields          = "All fields are required"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
	errors   errorWriter
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, logger logrus.FieldLogger, reporter reporting.Reporter) *AuthHandler {
	return &AuthHandler{
		Service:  svc,
		Validate: validate,
		errors:   newErrorWriter(logger, reporter),
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgRegisterFields)
	}
	result, err := h.Service.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgRegisterFields})
	}
	return c.JSON(http.StatusCreated, dto.AuthResponseFromEntity(result.User, result.Token))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgLoginFields)
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
	})
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgLoginFields})
	}
	return c.JSON(http.StatusOK, dto.AuthResponseFromEntity(result.User, result.Token))
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "User not found")
	}
	return c.JSON(http.StatusOK, dto.MeResponseFromEntity(user))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "User not found")
	}
	if err := h.Service.Logout(c.Request().Context(), user.ID, stringPtr(c.RealIP())); err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "User not found")
	}
	var req dto.ChangePasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgPasswordFields)
	}
	err := h.Service.ChangePassword(c.Request().Context(), service.ChangePasswordInput{
		UserID:                  user.ID,
		CurrentPassword:         req.CurrentPassword,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
		IPAddress:               stringPtr(c.RealIP()),
	})
	if err != nil {
		return h.errors.service(c, err, map[error]string{
			service.ErrInvalidInput:     msgPasswordFields,
			service.ErrPasswordMismatch: msgNewPasswordsMismatch,
		})
	}
	return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Password changed successfully", Status: "success"})
}

func (h *AuthHandler) PasswordForgot(c echo.Context) error {
	var req dto.PasswordForgotRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgEmailRequired)
	}
	if err := h.Service.RequestPasswordReset(c.Request().Context(), req.Email, stringPtr(c.RealIP())); err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgEmailRequired})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset link sent to your email", Status: "success"})
}

func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req dto.PasswordResetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgResetFields)
	}
	err := h.Service.ResetPassword(c.Request().Context(), service.ResetPasswordInput{
		Token:                   req.Token,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
		IPAddress:               stringPtr(c.RealIP()),
	})
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgResetFields})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset successfully", Status: "success"})
}
