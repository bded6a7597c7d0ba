package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

type ReviewHTTP struct {
	Svc   *service.ReviewService
	Users UserLookup
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}

	review, err := h.Svc.Create(ctx, me, req)
	if err != nil {
		return fail(l, "create_review_failed", err)
	}

	l.Info("create_review_success", "review_id", review.ID, "service_id", review.ServiceID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) ByService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.by_service")

	id, err := paramID(c, "serviceId")
	if err != nil {
		return err
	}
	reviews, err := h.Svc.ByService(ctx, id)
	if err != nil {
		return fail(l, "reviews_by_service_failed", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.stats")

	id, err := paramID(c, "serviceId")
	if err != nil {
		return err
	}
	stats, err := h.Svc.Stats(ctx, id)
	if err != nil {
		return fail(l, "review_stats_failed", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *ReviewHTTP) ByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.by_user")

	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	reviews, err := h.Svc.ByUser(ctx, id)
	if err != nil {
		return fail(l, "reviews_by_user_failed", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) Helpful(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.helpful")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.Svc.MarkHelpful(ctx, id)
	if err != nil {
		return fail(l, "mark_helpful_failed", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) NotHelpful(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.not_helpful")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.Svc.MarkNotHelpful(ctx, id)
	if err != nil {
		return fail(l, "mark_not_helpful_failed", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}

	review, err := h.Svc.Update(ctx, me.ID, id, req)
	if err != nil {
		return fail(l, "update_review_failed", err)
	}

	l.Info("update_review_success", "review_id", review.ID)
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, me.ID, id); err != nil {
		return fail(l, "delete_review_failed", err)
	}

	l.Info("delete_review_success", "review_id", id)
	return message(c, http.StatusOK, "Review deleted successfully")
}

func (h *ReviewHTTP) All(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.all")

	reviews, err := h.Svc.All(ctx)
	if err != nil {
		return fail(l, "all_reviews_failed", err)
	}
	return c.JSON(http.StatusOK, reviews)
}
