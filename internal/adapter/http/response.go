package http

import (
	"encoding/json"
	"net/http"
	"time"

	"transport-payroll/internal/domain/apperr"
	"transport-payroll/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// fail renders a usecase error. Unclassified errors are logged and hidden.
func fail(c echo.Context, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperr.KindConflict:
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case apperr.KindForbidden:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case apperr.KindBadRequest:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	logger.FromContext(c.Request().Context()).Error("unhandled error",
		zap.String("route", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func badRequest(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Details: []FieldError{{Field: field, Message: msg}},
	})
}

// bind decodes and validates a request. When ok is false the 400 response has
// already been written and err is what the handler should return.
func bind(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// parseDate reads YYYY-MM-DD as a UTC calendar day; empty yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// optional tells an absent JSON field apart from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
