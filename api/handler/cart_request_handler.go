package handler

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/internal/dto"
	"backoffice/internal/reporting"
	"backoffice/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgCartUserInfo    = "Please provide all required user information"
	msgCartItem        = "Invalid cart item"
	msgCartNotFound    = "Cart request not found"
	cartItemsNamespace = "CartRequestRequest.Items"
	msgCartSubmitted   = "Cart request submitted successfully"
)

type CartRequestHandler struct {
	Service  *service.CartRequestService
	Validate *validator.Validate
	errors   errorWriter
}

func NewCartRequestHandler(svc *service.CartRequestService, validate *validator.Validate, logger logrus.FieldLogger, reporter reporting.Reporter) *CartRequestHandler {
	return &CartRequestHandler{Service: svc, Validate: validate, errors: newErrorWriter(logger, reporter)}
}

func (h *CartRequestHandler) Submit(c echo.Context) error {
	var req dto.CartRequestRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, cartValidationMessage(err))
	}

	customer := service.CartCustomer{
		Name:    req.UserInfo.Name,
		Email:   req.UserInfo.Email,
		Phone:   req.UserInfo.Phone,
		Address: req.UserInfo.Address,
		TIN:     req.UserInfo.TIN,
		Message: req.UserInfo.Message,
	}
	items := make([]service.CartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CartItemInput{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Image:       item.Image,
			Slug:        item.Slug,
		})
	}

	request, err := h.Service.Submit(c.Request().Context(), customer, items)
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrInvalidInput: msgCartUserInfo})
	}
	return c.JSON(http.StatusCreated, dto.CartSubmittedResponse{Message: msgCartSubmitted, RequestID: request.ID})
}

func (h *CartRequestHandler) List(c echo.Context) error {
	requests, err := h.Service.List(c.Request().Context())
	if err != nil {
		return h.errors.internal(c, err)
	}
	return c.JSON(http.StatusOK, dto.CartRequestResponsesFromEntities(requests))
}

func (h *CartRequestHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return writeError(c, http.StatusNotFound, msgCartNotFound)
	}
	var req dto.CartStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Service.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrNotFound: msgCartNotFound})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Status updated successfully"})
}

func (h *CartRequestHandler) Delete(c echo.Context) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return writeError(c, http.StatusNotFound, msgCartNotFound)
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrNotFound: msgCartNotFound})
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Cart request deleted successfully"})
}

func cartValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			if !strings.HasPrefix(fieldError.Namespace(), cartItemsNamespace) {
				return msgCartUserInfo
			}
		}
		return msgCartItem
	}
	return msgCartUserInfo
}
