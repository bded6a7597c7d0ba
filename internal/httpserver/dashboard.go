package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/pkg/logging"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

func (h *DashboardHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.summary")

	sum, err := h.Svc.Summary(ctx)
	if err != nil {
		return fail(l, "dashboard_summary_failed", err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *DashboardHTTP) Activities(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.activities")

	feed, err := h.Svc.Activities(ctx)
	if err != nil {
		return fail(l, "dashboard_activities_failed", err)
	}
	return c.JSON(http.StatusOK, feed)
}
