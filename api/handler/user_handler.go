package handler

import (
	"fmt"
	"net/http"

	"backoffice/internal/dto"
	"backoffice/internal/reporting"
	"backoffice/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgCreateUserFields = "Name, email, password, and role are required"

// UserHandler serves /api/admin/users. Every route sits behind Protect and Admin.
type UserHandler struct {
	Service  *service.UserAdminService
	Validate *validator.Validate
	errors   errorWriter
}

func NewUserHandler(svc *service.UserAdminService, validate *validator.Validate, logger logrus.FieldLogger, reporter reporting.Reporter) *UserHandler {
	return &UserHandler{Service: svc, Validate: validate, errors: newErrorWriter(logger, reporter)}
}

func (h *UserHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return h.errors.internal(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusNotFound, "User not found")
	}
	user, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, msgCreateUserFields)
	}
	user, err := h.Service.Create(c.Request().Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgCreateUserFields})
	}
	return c.JSON(http.StatusCreated, dto.UserEnvelope{
		Message: "User created successfully",
		User:    dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusNotFound, "User not found")
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	user, err := h.Service.Update(c.Request().Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusOK, dto.UserEnvelope{
		Message: "User updated successfully",
		User:    dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusNotFound, "User not found")
	}
	user, err := h.Service.Delete(c.Request().Context(), id)
	if err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("User %q deleted successfully", user.Name)})
}
