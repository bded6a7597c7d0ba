package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/storage"
	"github.com/kalakriti/backend/internal/testutil"
	"github.com/kalakriti/backend/pkg/hash"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
	"github.com/kalakriti/backend/pkg/tokens"
)

type testServer struct {
	e       *echo.Echo
	repo    *repo.GormRepo
	tokens  *tokens.Service
	replies *replyMock
}

type replyMock struct {
	mock.Mock
}

func (m *replyMock) Reply(ctx context.Context, to, text string) error {
	return m.Called(ctx, to, text).Error(0)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	r := repo.New(testutil.InitTestDB(t))
	tok := tokens.NewService([]byte("handler-test-secret"), time.Hour)
	store, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	authSvc := &service.AuthService{Repo: r, Tokens: tok}
	gateway := payment.NewRazorpay("rzp_test_key", "rzp-test-secret")
	replies := &replyMock{}

	e := echo.New()
	e.Use(authmw.Authenticate(tok))
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Payments: gateway}, Users: authSvc},
		Reviews:   &ReviewHTTP{Svc: &service.ReviewService{Repo: r}, Users: authSvc},
		Contacts:  &ContactHTTP{Svc: &service.ContactService{Repo: r, Store: store, Replies: replies}, Users: authSvc},
		Dashboard: &DashboardHTTP{Svc: &service.DashboardService{Repo: r}},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Store: store}},
		Users:     &UserHTTP{Svc: &service.UserService{Repo: r}, Users: authSvc},
		Roles:     authSvc,
		Ready:     func(context.Context) error { return nil },
	})

	return &testServer{e: e, repo: r, tokens: tok, replies: replies}
}

// seedUser stores a user with password "secret" and returns a bearer token for it.
func (s *testServer) seedUser(t *testing.T, name, email, role string) (*models.User, string) {
	t.Helper()

	pwHash, err := hash.HashPassword("secret")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, PasswordHash: pwHash, Role: role}
	require.NoError(t, s.repo.CreateUser(context.Background(), u))

	token, _, err := s.tokens.Issue(email)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
