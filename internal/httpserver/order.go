package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderHTTP struct {
	Svc   *service.OrderService
	Users UserLookup
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	var req transport.OrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, req)
	if err != nil {
		return fail(l, "place_order_failed", err)
	}

	l.Info("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreatePaymentOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_payment_order")

	var req transport.PaymentOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_payment_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.CreatePaymentOrder(ctx, req.Amount)
	if err != nil {
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) {
			l.Error("create_payment_order_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment order: "+gwErr.Message)
		}
		if errors.Is(err, service.ErrValidation) {
			return fail(l, "create_payment_order_failed", err)
		}
		l.Error("create_payment_order_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment order")
	}

	l.Info("create_payment_order_success", "razorpay_order_id", res.OrderID)
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.verify_payment")

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_payment_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	proof := service.PaymentProof{
		RazorpayOrderID: strings.TrimSpace(req.RazorpayOrderID),
		PaymentID:       strings.TrimSpace(req.PaymentID),
		Signature:       strings.TrimSpace(req.Signature),
	}
	order, err := h.Svc.PlaceVerifiedOrder(ctx, proof, req.OrderData)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPaymentVerification):
		l.Warn("verify_payment_failed", "status", 400, "reason", "signature mismatch")
		return echo.NewHTTPError(http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return fail(l, "verify_payment_failed", err)
	default:
		l.Error("verify_payment_failed", "status", 500, "reason", "cannot save order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save order")
	}

	l.Info("verify_payment_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

// UserOrders lists a customer's orders for the customer themself or an admin.
func (h *OrderHTTP) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_orders")

	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}
	if me.ID != userID && me.Role != models.RoleAdmin {
		l.Warn("user_orders_failed", "status", 403, "reason", "not owner")
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}

	orders, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		return fail(l, "user_orders_failed", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// CancelOrder is the customer-facing status change; only CANCELLED is accepted.
func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	id, err := paramID(c, "orderId")
	if err != nil {
		return err
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != models.OrderStatusCancelled {
		l.Warn("cancel_order_failed", "status", 400, "reason", "customers may only cancel", "requested", status)
		return echo.NewHTTPError(http.StatusBadRequest, "only CANCELLED can be requested")
	}
	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}

	order, err := h.Svc.CancelOwnOrder(ctx, me.ID, id)
	if err != nil {
		return fail(l, "cancel_order_failed", err)
	}

	l.Info("cancel_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) AllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.all_orders")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "all_orders_failed", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Svc.GetByID(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, id, c.QueryParam("status"))
	if err != nil {
		return fail(l, "update_status_failed", err)
	}

	l.Info("update_status_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return message(c, http.StatusOK, "Order deleted successfully")
}

func (h *OrderHTTP) Export(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export")

	data, err := h.Svc.ExportOrders(ctx)
	if err != nil {
		return fail(l, "export_failed", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
