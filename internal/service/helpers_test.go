package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/testutil"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/hash"
)

const testKeySecret = "rzp-test-secret"

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testutil.InitTestDB(t))
}

func seedUser(t *testing.T, r *repo.GormRepo, name, email, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("secret")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func codDraft(userID uint) transport.OrderRequest {
	return transport.OrderRequest{
		UserID:       transport.FlexID(userID),
		CustomerName: "Ann",
		Phone:        "9800000000",
		Address:      "Kathmandu",
		UserEmail:    "ann@x.com",
		TotalPrice:   499.0,
		Items: []transport.OrderItemRequest{
			{ServiceID: 3, Name: "Madhubani", Quantity: 1, Price: 499.0},
		},
	}
}

type fakeGateway struct {
	*payment.Razorpay
	created []int64
	err     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Razorpay: payment.NewRazorpay("rzp_test_key", testKeySecret)}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, currency string) (*payment.ProviderOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, amountPaise)
	return &payment.ProviderOrder{ID: "order_test_1", Amount: amountPaise, Currency: currency}, nil
}

type recordedEvents struct {
	mu      sync.Mutex
	placed  []models.Order
	changed []models.Order
}

func (e *recordedEvents) OrderPlaced(_ context.Context, o models.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.placed = append(e.placed, o)
}

func (e *recordedEvents) OrderStatusChanged(_ context.Context, o models.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changed = append(e.changed, o)
}
