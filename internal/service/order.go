package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kalakriti/backend/internal/export"
	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
	"github.com/kalakriti/backend/pkg/metrics"
)

const Currency = "INR"

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency string) (*payment.ProviderOrder, error)
	VerifySignature(orderID, paymentID, signature string) (bool, error)
	KeyID() string
}

// OrderEvents receives committed orders. Implementations must not block.
type OrderEvents interface {
	OrderPlaced(ctx context.Context, order models.Order)
	OrderStatusChanged(ctx context.Context, order models.Order)
}

type PaymentProof struct {
	RazorpayOrderID string
	PaymentID       string
	Signature       string
}

type OrderService struct {
	Repo     *repo.GormRepo
	Payments PaymentGateway
	Events   OrderEvents
}

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	models.OrderStatusPlaced:    {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: nil,
	models.OrderStatusCancelled: nil,
}

func knownStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validateDraft(order *models.Order) error {
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	if order.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must be >= 0", ErrValidation)
	}
	for i := range order.Items {
		if order.Items[i].Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if order.Items[i].Price < 0 {
			return fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
	}
	return nil
}

// PlaceOrder stores a cash-on-delivery order. Online orders must go through
// PlaceVerifiedOrder.
func (s *OrderService) PlaceOrder(ctx context.Context, draft transport.OrderRequest) (*models.Order, error) {
	order := draft.Order()
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentCOD
	}
	if order.PaymentMethod != models.PaymentCOD {
		return nil, fmt.Errorf("%w: payment method %q requires payment verification", ErrValidation, order.PaymentMethod)
	}
	if err := validateDraft(&order); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusPlaced
	order.PaymentStatus = nil
	order.PaymentID = nil

	return s.persist(ctx, &order)
}

// PlaceVerifiedOrder checks the provider signature before anything is written.
// Once the signature holds, the order is stored as PAID whatever the draft
// looks like.
func (s *OrderService) PlaceVerifiedOrder(ctx context.Context, proof PaymentProof, draft transport.OrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.verify_payment", "razorpay_order_id", proof.RazorpayOrderID)

	ok, err := s.Payments.VerifySignature(proof.RazorpayOrderID, proof.PaymentID, proof.Signature)
	switch {
	case errors.Is(err, payment.ErrMalformedInput):
		metrics.PaymentVerifications.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: razorpayOrderId, paymentId and signature are required", ErrValidation)
	case err != nil:
		return nil, err
	case !ok:
		metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
		l.Warn("payment_signature_mismatch")
		return nil, ErrPaymentVerification
	}
	metrics.PaymentVerifications.WithLabelValues("valid").Inc()

	// The payment is captured by now, so an irregular draft is still stored.
	order := draft.Order()
	if err := validateDraft(&order); err != nil {
		l.Warn("verified_order_irregular_draft", "payment_id", proof.PaymentID, "error", err)
	}

	paid := models.PaymentPaid
	paymentID := proof.PaymentID
	order.PaymentMethod = models.PaymentOnline
	order.RazorpayOrderID = proof.RazorpayOrderID
	order.PaymentID = &paymentID
	order.PaymentStatus = &paid
	order.Status = models.OrderStatusPlaced

	saved, err := s.persist(ctx, &order)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, fmt.Errorf("%w: payment %s already used", ErrConflict, proof.PaymentID)
	}
	if err != nil {
		l.Error("verified_order_not_saved", "payment_id", proof.PaymentID, "error", err)
	}
	return saved, err
}

func (s *OrderService) persist(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()
	logging.FromContext(ctx).Info("order_placed", "order_id", order.ID, "payment_method", order.PaymentMethod)

	if s.Events != nil {
		s.Events.OrderPlaced(ctx, *order)
	}
	return order, nil
}

// CreatePaymentOrder opens a provider order for an amount given in rupees.
func (s *OrderService) CreatePaymentOrder(ctx context.Context, amountRupees float64) (*transport.PaymentOrderResponse, error) {
	amount := decimal.NewFromFloat(amountRupees)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	paise := amount.Shift(2).Round(0).IntPart()
	if paise <= 0 {
		return nil, fmt.Errorf("%w: amount must be at least one paisa", ErrValidation)
	}

	po, err := s.Payments.CreateOrder(ctx, paise, Currency)
	if err != nil {
		return nil, err
	}
	return &transport.PaymentOrderResponse{
		OrderID:  po.ID,
		Amount:   po.Amount,
		Currency: po.Currency,
		KeyID:    s.Payments.KeyID(),
	}, nil
}

// UpdateStatus moves an order along the status graph. Writing the current
// status again is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	return s.transition(ctx, id, status, nil)
}

// CancelOwnOrder lets a customer cancel an order that belongs to them.
func (s *OrderService) CancelOwnOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCancelled, func(o *models.Order) error {
		if o.UserID == nil || *o.UserID != userID {
			return fmt.Errorf("%w: order %d does not belong to the caller", ErrForbidden, id)
		}
		return nil
	})
}

func (s *OrderService) transition(ctx context.Context, id uint, status string, guard func(*models.Order) error) (*models.Order, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !knownStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	changed := false
	order, err := s.Repo.TransitionOrder(ctx, id, func(o *models.Order) (bool, error) {
		if guard != nil {
			if err := guard(o); err != nil {
				return false, err
			}
		}
		if o.Status == status {
			return false, nil
		}
		if !canTransition(o.Status, status) {
			return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}
		o.Status = status
		changed = true
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	if changed {
		logging.FromContext(ctx).Info("order_status_changed", "order_id", order.ID, "status", order.Status)
		if s.Events != nil && (status == models.OrderStatusShipped || status == models.OrderStatusDelivered) {
			s.Events.OrderStatusChanged(ctx, *order)
		}
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.OrdersByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *OrderService) ExportOrders(ctx context.Context) ([]byte, error) {
	orders, err := s.Repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return export.OrdersXLSX(orders)
}
