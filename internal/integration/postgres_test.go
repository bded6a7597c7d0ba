package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	pkgdb "github.com/kalakriti/backend/pkg/db"
	"github.com/kalakriti/backend/pkg/tokens"
)

const keySecret = "integration-secret"

type integrationEnv struct {
	db   *gorm.DB
	repo *repo.GormRepo
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	dsn := os.Getenv("KALAKRITI_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("KALAKRITI_TEST_DATABASE_URL is required for tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pkgdb.Migrate(ctx, db, models.All()...))

	t.Cleanup(func() {
		truncateTables(t, db)
		_ = pkgdb.Close(db)
	})
	truncateTables(t, db)

	return &integrationEnv{db: db, repo: repo.New(db)}
}

func truncateTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(`TRUNCATE TABLE order_items, orders, contact_images, contact_messages,
		reviews, services, artworks, users RESTART IDENTITY CASCADE`).Error)
}

func draft(method string) transport.OrderRequest {
	return transport.OrderRequest{
		CustomerName:  "Ann",
		UserEmail:     "ann@x.com",
		TotalPrice:    499,
		PaymentMethod: method,
		Items:         []transport.OrderItemRequest{{ServiceID: 1, Name: "Madhubani", Quantity: 1, Price: 499}},
	}
}

func TestAdminSeedAndLogin(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	auth := &service.AuthService{Repo: env.repo, Tokens: tokens.NewService([]byte("it-secret"), time.Hour)}
	_, err := auth.EnsureAdmin(ctx, "info@kalakriti.com", "kalakriti", "Admin")
	require.NoError(t, err)
	_, err = auth.EnsureAdmin(ctx, "info@kalakriti.com", "kalakriti", "Admin")
	require.NoError(t, err)

	res, err := auth.Login(ctx, "INFO@kalakriti.com", "kalakriti")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.Token)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "X", Email: "Info@Kalakriti.com", Password: "pw"})
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestVerifiedPaymentCannotBeReplayed(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	orders := &service.OrderService{Repo: env.repo, Payments: payment.NewRazorpay("rzp_key", keySecret)}
	paymentID := "pay_" + uuid.NewString()
	proof := service.PaymentProof{
		RazorpayOrderID: "order_1",
		PaymentID:       paymentID,
		Signature:       payment.Sign(keySecret, "order_1", paymentID),
	}

	order, err := orders.PlaceVerifiedOrder(ctx, proof, draft(models.PaymentOnline))
	require.NoError(t, err)
	require.NotNil(t, order.PaymentStatus)
	assert.Equal(t, models.PaymentPaid, *order.PaymentStatus)

	_, err = orders.PlaceVerifiedOrder(ctx, proof, draft(models.PaymentOnline))
	assert.ErrorIs(t, err, service.ErrConflict)

	count, err := env.repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestConcurrentStatusUpdates(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	orders := &service.OrderService{Repo: env.repo}
	order, err := orders.PlaceOrder(ctx, draft(models.PaymentCOD))
	require.NoError(t, err)

	errs := make(chan error, 2)
	for _, status := range []string{models.OrderStatusShipped, models.OrderStatusCancelled} {
		go func(status string) {
			_, err := orders.UpdateStatus(ctx, order.ID, status)
			errs <- err
		}(status)
	}

	var failed int
	for range 2 {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, service.ErrInvalidTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactly one edge out of PLACED may win")
}

func TestReviewUniqueIndex(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	u := &models.User{Name: "Ann", Email: "ann@x.com", Role: models.RoleUser}
	require.NoError(t, env.repo.CreateUser(ctx, u))

	require.NoError(t, env.repo.CreateReview(ctx, &models.Review{UserID: u.ID, ServiceID: 5, UserName: "Ann", Rating: 5}))
	err := env.repo.CreateReview(ctx, &models.Review{UserID: u.ID, ServiceID: 5, UserName: "Ann", Rating: 1})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestArtTagsRoundTrip(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	art := &models.Art{Title: "Lotus", Category: "Madhubani", Status: models.ArtStatusPending, Tags: models.Tags{"folk", "lotus"}}
	require.NoError(t, env.repo.CreateArt(ctx, art))

	got, err := env.repo.ArtByID(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Tags{"folk", "lotus"}, got.Tags)
}
