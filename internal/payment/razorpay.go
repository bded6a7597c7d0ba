package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

var ErrMalformedInput = errors.New("payment: malformed input")

// GatewayError is a failed provider call. Message is the provider's text.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return "razorpay: " + e.Message
}

type ProviderOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// orderAPI is the slice of the SDK order resource used here.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	keyID     string
	keySecret string
	orders    orderAPI
	now       func() time.Time
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		orders:    client.Order,
		now:       time.Now,
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

type createResult struct {
	order map[string]interface{}
	err   error
}

// CreateOrder opens a provider order. The SDK call takes no context; it is
// bounded by the SDK's own HTTP timeout and abandoned when ctx ends first.
func (r *Razorpay) CreateOrder(ctx context.Context, amountPaise int64, currency string) (*ProviderOrder, error) {
	if amountPaise <= 0 || currency == "" {
		return nil, ErrMalformedInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  "order_rcptid_" + strconv.FormatInt(r.now().UnixMilli(), 10),
	}

	done := make(chan createResult, 1)
	go func() {
		body, err := r.orders.Create(data, nil)
		done <- createResult{order: body, err: err}
	}()

	var res createResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, &GatewayError{Message: res.err.Error()}
	}

	order := &ProviderOrder{
		ID:       stringField(res.order, "id"),
		Amount:   int64Field(res.order, "amount"),
		Currency: stringField(res.order, "currency"),
		Receipt:  stringField(res.order, "receipt"),
		Status:   stringField(res.order, "status"),
	}
	if order.ID == "" {
		return nil, &GatewayError{Message: "order id missing in response"}
	}
	return order, nil
}

// VerifySignature checks the checkout signature, hex(HMAC-SHA256(orderID|paymentID)).
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMalformedInput
	}

	attrs := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(attrs, strings.ToLower(signature), r.keySecret), nil
}

// Sign produces the signature checkout returns for a captured payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// int64Field reads a JSON number, which the SDK decodes as float64.
func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
