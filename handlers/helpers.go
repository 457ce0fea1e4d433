package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anishkumar0507/hostelbackend/services"
)

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func paramUint(c echo.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// getUserID reads the JWT subject set by RequireAuth.
func getUserID(c echo.Context) (uint, bool) {
	switch v := c.Get("user_id").(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}

// serviceError maps the engine error taxonomy to HTTP responses.
// Conflict and AmountMismatch stay distinguishable from server errors
// so clients can retry with fresh data.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_INPUT", "detail": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	case errors.Is(err, services.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]any{"error": "CONFLICT"})
	case errors.Is(err, services.ErrAmountMismatch):
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "AMOUNT_MISMATCH"})
	default:
		logrus.WithError(err).Error("request failed")
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "SERVER_ERROR"})
	}
}

// timeRange parses ?from=&to= query params; accepts RFC3339 or
// YYYY-MM-DD (the latter spans the whole day for "to").
func timeRange(c echo.Context) (*time.Time, *time.Time) {
	parse := func(s string, endOfDay bool) *time.Time {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			if endOfDay {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			return &t
		}
		return nil
	}
	return parse(c.QueryParam("from"), false), parse(c.QueryParam("to"), true)
}
