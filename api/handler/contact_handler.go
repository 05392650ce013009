package handler

import (
	"net/http"

	"backoffice/internal/dto"
	"backoffice/internal/reporting"
	"backoffice/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgContactNotFound = "Contact not found"

type ContactHandler struct {
	Service  *service.ContactService
	Validate *validator.Validate
	errors   errorWriter
}

func NewContactHandler(svc *service.ContactService, validate *validator.Validate, logger logrus.FieldLogger, reporter reporting.Reporter) *ContactHandler {
	return &ContactHandler{Service: svc, Validate: validate, errors: newErrorWriter(logger, reporter)}
}

func (h *ContactHandler) Create(c echo.Context) error {
	var req dto.ContactRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, "Required fields missing")
	}
	contact, err := h.Service.Create(c.Request().Context(), service.ContactInput{
		Name:       req.Name,
		Email:      req.Email,
		Company:    req.Company,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Message:    req.Message,
		Newsletter: req.Newsletter,
	})
	if err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusCreated, dto.ContactEnvelope{
		Message: "Contact message sent successfully",
		Contact: dto.ContactResponseFromEntity(contact),
	})
}

func (h *ContactHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	contacts, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return h.errors.internal(c, err)
	}
	return c.JSON(http.StatusOK, dto.ContactResponsesFromEntities(contacts))
}

func (h *ContactHandler) Get(c echo.Context) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return writeError(c, http.StatusNotFound, msgContactNotFound)
	}
	contact, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrNotFound: msgContactNotFound})
	}
	return c.JSON(http.StatusOK, dto.ContactResponseFromEntity(contact))
}

func (h *ContactHandler) Delete(c echo.Context) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return writeError(c, http.StatusNotFound, msgContactNotFound)
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrNotFound: msgContactNotFound})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Contact deleted successfully"})
}

func (h *ContactHandler) MarkRead(c echo.Context) error {
	var req dto.MarkReadRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	updated, err := h.Service.MarkRead(c.Request().Context(), req.IDs)
	if err != nil {
		return h.errors.internal(c, err)
	}
	return c.JSON(http.StatusOK, dto.MarkReadResponse{Message: "Contacts marked as read", Updated: updated})
}
