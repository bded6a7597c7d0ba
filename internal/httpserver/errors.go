package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/service"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
)

// UserLookup resolves the authenticated caller to a stored user.
type UserLookup interface {
	CurrentUser(ctx context.Context, email string) (*models.User, error)
}

// fail maps a service error to an HTTP error and logs it. Client errors carry
// the service message; anything unexpected gets a generic one.
func fail(l *slog.Logger, event string, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrPaymentVerification):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidProviderToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(event, "status", status, "error", err)
	return echo.NewHTTPError(status, clientMessage(err))
}

// clientMessage strips the sentinel prefix from "sentinel: detail".
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrValidation, service.ErrForbidden, service.ErrNotFound, service.ErrConflict} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

func paramID(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(n), nil
}

func caller(c echo.Context, users UserLookup) (*models.User, error) {
	email, ok := authmw.EmailFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	u, err := users.CurrentUser(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		return nil, err
	}
	return u, nil
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}
