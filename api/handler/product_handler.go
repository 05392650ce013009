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

const msgProductNotFound = "Product not found"

type ProductHandler struct {
	Service  *service.ProductService
	Validate *validator.Validate
	errors   errorWriter
}

func NewProductHandler(svc *service.ProductService, validate *validator.Validate, logger logrus.FieldLogger, reporter reporting.Reporter) *ProductHandler {
	return &ProductHandler{Service: svc, Validate: validate, errors: newErrorWriter(logger, reporter)}
}

// List runs behind OptionalProtect; the viewer decides whether inactive
// products are included.
func (h *ProductHandler) List(c echo.Context) error {
	viewer, _ := middleware.CurrentUser(c)
	limit, offset := parseLimitOffset(c)
	products, err := h.Service.List(c.Request().Context(), viewer, limit, offset)
	if err != nil {
		return h.errors.internal(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponsesFromEntities(products))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return writeError(c, http.StatusNotFound, msgProductNotFound)
	}
	viewer, _ := middleware.CurrentUser(c)
	product, err := h.Service.Get(c.Request().Context(), viewer, id)
	if err != nil {
		return h.errors.service(c, err, map[error]string{service.ErrNotFound: msgProductNotFound})
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req dto.ProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, "Required fields missing")
	}
	product, err := h.Service.Create(c.Request().Context(), service.ProductInput{
		Category:    req.Category,
		ProductName: req.ProductName,
		Description: req.Description,
		Price:       req.Price,
		Model:       req.Model,
		Stock:       req.Stock,
		Status:      req.Status,
	})
	if err != nil {
		return h.errors.service(c, err, nil)
	}
	return c.JSON(http.StatusCreated, dto.ProductEnvelope{
		Message: "Product added successfully",
		Product: dto.ProductResponseFromEntity(product),
	})
}
