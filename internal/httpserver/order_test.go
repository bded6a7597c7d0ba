package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
)

func orderBody(userID uint) echo.Map {
	return echo.Map{
		"userId":        fmt.Sprint(userID),
		"customerName":  "Ann",
		"phone":         "9800000000",
		"address":       "Kathmandu",
		"userEmail":     "ann@x.com",
		"totalPrice":    499.0,
		"paymentMethod": "cod",
		"items": []echo.Map{
			{"serviceId": 3, "name": "Madhubani", "quantity": 1, "price": 499.0},
		},
	}
}

func TestOrders_PlaceAndList(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ann, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, bobToken := s.seedUser(t, "Bob", "bob@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderBody(ann.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Nil(t, order.PaymentStatus)
	assert.False(t, order.CreatedAt.IsZero())

	path := fmt.Sprintf("/api/orders/user/%d", ann.ID)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, bobToken, nil).Code)

	for _, token := range []string{annToken, adminToken} {
		rec = s.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.Order](t, rec), 1)
	}
}

func TestOrders_OnlineRejectedOnPlainEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := orderBody(1)
	body["paymentMethod"] = "ONLINE"

	rec := s.do(t, http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_VerifyPaymentBadSignature(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := orderBody(1)
	body["paymentMethod"] = "ONLINE"

	rec := s.do(t, http.MethodPost, "/api/orders/verify-payment", "", echo.Map{
		"razorpayOrderId": "order_1",
		"paymentId":       "pay_1",
		"signature":       "deadbeef",
		"orderData":       body,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestOrders_VerifyPaymentWithoutItems(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := orderBody(1)
	body["paymentMethod"] = "ONLINE"
	delete(body, "items")

	rec := s.do(t, http.MethodPost, "/api/orders/verify-payment", "", echo.Map{
		"razorpayOrderId": "order_9",
		"paymentId":       "pay_9",
		"signature":       payment.Sign("rzp-test-secret", "order_9", "pay_9"),
		"orderData":       body,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	require.NotNil(t, order.PaymentStatus)
	assert.Equal(t, models.PaymentPaid, *order.PaymentStatus)
	assert.Empty(t, order.Items)
}

func TestOrders_CancelOwn(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ann, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, bobToken := s.seedUser(t, "Bob", "bob@x.com", models.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderBody(ann.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[models.Order](t, rec)
	path := fmt.Sprintf("/api/orders/user/%d/status", order.ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path+"?status=SHIPPED", annToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, path+"?status=CANCELLED", bobToken, nil).Code)

	rec = s.do(t, http.MethodPut, path+"?status=CANCELLED", annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusCancelled, decode[models.Order](t, rec).Status)
}

func TestOrders_AdminRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ann, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/orders", "", orderBody(ann.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[models.Order](t, rec)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/orders/admin", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/orders/admin", annToken, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/orders/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Order](t, rec), 1)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/orders/admin/999", adminToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/orders/admin/abc", adminToken, nil).Code)

	statusPath := fmt.Sprintf("/api/orders/admin/%d/status", order.ID)
	rec = s.do(t, http.MethodPut, statusPath+"?status=DELIVERED", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPut, statusPath+"?status=shipped", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusShipped, decode[models.Order](t, rec).Status)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/orders/admin/999/status?status=SHIPPED", adminToken, nil).Code)

	rec = s.do(t, http.MethodGet, "/api/orders/admin/export", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "orders.xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/orders/admin/%d", order.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/api/orders/admin/%d", order.ID), adminToken, nil).Code)
}

func TestOrders_CreatePaymentOrderRejectsBadAmount(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, amount := range []float64{0, -5} {
		rec := s.do(t, http.MethodPost, "/api/orders/create-razorpay-order", "", echo.Map{"amount": amount})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %v", amount)
	}
}
