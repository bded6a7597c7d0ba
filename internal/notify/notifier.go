package notify

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/pkg/logging"
	"github.com/kalakriti/backend/pkg/metrics"
)

const (
	KindOrderConfirmation = "order_confirmation"
	KindOrderShipped      = "order_shipped"
	KindOrderDelivered    = "order_delivered"
	KindOrderEvent        = "order_event"
	KindReply             = "reply"
)

const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
	resultSkipped = "skipped"
)

// placeholderEmail is what the storefront submits when it has no address.
const placeholderEmail = "customer@example.com"

const DefaultTaskTimeout = 30 * time.Second

type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	UserID        *uint     `json:"user_id,omitempty"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TotalPrice    float64   `json:"total_price"`
	At            time.Time `json:"at"`
}

// Notifier delivers order mail and events after the order is committed.
// Order notifications are best effort: failures are logged and counted
// but never reach the caller.
type Notifier struct {
	Pool        *Pool
	Mail        MailSender
	Events      EventPublisher
	Topic       string
	TaskTimeout time.Duration
}

func UsableEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.Contains(email, "@") && !strings.EqualFold(email, placeholderEmail)
}

func (n *Notifier) OrderPlaced(ctx context.Context, order models.Order) {
	n.dispatch(ctx, "order_placed", order, KindOrderConfirmation, OrderConfirmationMail)
}

func (n *Notifier) OrderStatusChanged(ctx context.Context, order models.Order) {
	switch order.Status {
	case models.OrderStatusShipped:
		n.dispatch(ctx, "order_status_changed", order, KindOrderShipped, OrderShippedMail)
	case models.OrderStatusDelivered:
		n.dispatch(ctx, "order_status_changed", order, KindOrderDelivered, OrderDeliveredMail)
	default:
		n.dispatch(ctx, "order_status_changed", order, "", nil)
	}
}

// Reply is sent synchronously so the admin sees delivery failures.
func (n *Notifier) Reply(ctx context.Context, to, text string) error {
	err := n.Mail.Send(ctx, ReplyMail(to, text))
	record(KindReply, err)
	return err
}

func (n *Notifier) dispatch(ctx context.Context, eventType string, order models.Order, kind string, build func(models.Order) (Message, error)) {
	l := logging.FromContext(ctx).With("order_id", order.ID)
	// keep the logger, drop the request's cancellation
	bg := context.WithoutCancel(ctx)

	task := func() {
		ctx, cancel := context.WithTimeout(bg, n.timeout())
		defer cancel()

		if build != nil {
			n.sendOrderMail(ctx, l, order, kind, build)
		}
		n.publish(ctx, l, eventType, order)
	}

	if err := n.Pool.Submit(task); err != nil {
		l.Warn("notification_dropped", "event", eventType, "error", err)
		if build != nil {
			metrics.Notifications.WithLabelValues(kind, resultDropped).Inc()
		}
		if n.Events != nil {
			metrics.Notifications.WithLabelValues(KindOrderEvent, resultDropped).Inc()
		}
	}
}

func (n *Notifier) sendOrderMail(ctx context.Context, l *slog.Logger, order models.Order, kind string, build func(models.Order) (Message, error)) {
	if !UsableEmail(order.UserEmail) {
		l.Warn("notification_skipped", "kind", kind, "reason", "no usable email")
		metrics.Notifications.WithLabelValues(kind, resultSkipped).Inc()
		return
	}

	msg, err := build(order)
	if err == nil {
		err = n.Mail.Send(ctx, msg)
	}
	record(kind, err)
	if err != nil && !errors.Is(err, ErrMailDisabled) {
		l.Error("notification_failed", "kind", kind, "to", order.UserEmail, "error", err)
		return
	}
	if err == nil {
		l.Info("notification_sent", "kind", kind, "to", order.UserEmail)
	}
}

func (n *Notifier) publish(ctx context.Context, l *slog.Logger, eventType string, order models.Order) {
	if n.Events == nil {
		return
	}

	err := n.Events.PublishEvent(ctx, n.Topic, strconv.FormatUint(uint64(order.ID), 10), OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		TotalPrice:    order.TotalPrice,
		At:            time.Now().UTC(),
	})
	record(KindOrderEvent, err)
	if err != nil {
		l.Error("order_event_publish_failed", "event", eventType, "error", err)
	}
}

func (n *Notifier) timeout() time.Duration {
	if n.TaskTimeout <= 0 {
		return DefaultTaskTimeout
	}
	return n.TaskTimeout
}

func record(kind string, err error) {
	result := resultSent
	switch {
	case errors.Is(err, ErrMailDisabled):
		result = resultSkipped
	case err != nil:
		result = resultFailed
	}
	metrics.Notifications.WithLabelValues(kind, result).Inc()
}
