package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/reporting"
	"backoffice/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const msgInternal = "internal server error"

var errMalformedBody = errors.New("invalid request body")

type serviceStatus struct {
	err     error
	status  int
	message string
}

// Default status and message per service error. Handlers override the message
// where an endpoint words it differently.
var serviceStatuses = []serviceStatus{
	{service.ErrInvalidInput, http.StatusBadRequest, "Required fields missing"},
	{service.ErrPasswordMismatch, http.StatusBadRequest, "Passwords do not match"},
	{service.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{service.ErrEmailAlreadyRegistered, http.StatusBadRequest, "Email already registered"},
	{service.ErrNoFieldsToUpdate, http.StatusBadRequest, "No fields to update"},
	{service.ErrEmptyCart, http.StatusBadRequest, "Cart cannot be empty"},
	{service.ErrInvalidCartItem, http.StatusBadRequest, "Invalid cart item"},
	{service.ErrResetTokenInvalid, http.StatusBadRequest, "Invalid token"},
	{service.ErrResetTokenExpired, http.StatusBadRequest, "Token expired"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrWrongPassword, http.StatusUnauthorized, "Current password is incorrect"},
	{service.ErrAccountInactive, http.StatusForbidden, "Account is inactive"},
	{service.ErrEmailNotFound, http.StatusNotFound, "Email not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrNotFound, http.StatusNotFound, "Not found"},
}

// errorWriter renders error responses. Anything unmapped is logged, reported
// and answered with a generic 500.
type errorWriter struct {
	logger   logrus.FieldLogger
	reporter reporting.Reporter
}

func newErrorWriter(logger logrus.FieldLogger, reporter reporting.Reporter) errorWriter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	return errorWriter{logger: logger, reporter: reporter}
}

func (w errorWriter) service(c echo.Context, err error, overrides map[error]string) error {
	for _, candidate := range serviceStatuses {
		if !errors.Is(err, candidate.err) {
			continue
		}
		message := candidate.message
		if override, ok := overrides[candidate.err]; ok {
			message = override
		}
		return writeError(c, candidate.status, message)
	}
	return w.internal(c, err)
}

func (w errorWriter) internal(c echo.Context, err error) error {
	w.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"uri":    c.Request().RequestURI,
	}).Error("request failed")
	w.reporter.CaptureException(err)
	return writeError(c, http.StatusInternalServerError, msgInternal)
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// decodeJSON treats an empty body as an empty object so field validation
// reports the missing fields.
func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errMalformedBody
	}
	return nil
}

func writeDecodeError(c echo.Context) error {
	return writeError(c, http.StatusBadRequest, errMalformedBody.Error())
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func parseUintParam(c echo.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
