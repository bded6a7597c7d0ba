package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

type UserHTTP struct {
	Svc   *service.UserService
	Users UserLookup
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_users_failed", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}

	if _, err := h.Svc.UpdateContact(ctx, me, id, req.Phone, req.Address); err != nil {
		return fail(l, "update_user_failed", err)
	}

	l.Info("update_user_success", "user_id", id)
	return message(c, http.StatusOK, "User updated successfully")
}
