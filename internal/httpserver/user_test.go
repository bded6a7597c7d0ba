package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/transport"
)

func TestUsers_ListAndUpdate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ann, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, bobToken := s.seedUser(t, "Bob", "bob@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", annToken, nil).Code)
	rec := s.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 3)

	path := fmt.Sprintf("/api/users/%d", ann.ID)
	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"other user", bobToken, http.StatusForbidden},
		{"owner", annToken, http.StatusOK},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		rec := s.do(t, http.MethodPut, path, tt.token, echo.Map{"address": "Patan"})
		assert.Equal(t, tt.code, rec.Code, tt.name)
	}

	rec = s.do(t, http.MethodPut, "/api/users/999", adminToken, echo.Map{"phone": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ann, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/orders", "", orderBody(ann.ID)).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/dashboard", annToken, nil).Code)

	for _, path := range []string{"/api/admin/dashboard", "/api/admin/dashboard/dashboard"} {
		rec := s.do(t, http.MethodGet, path, adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		sum := decode[transport.DashboardResponse](t, rec)
		assert.EqualValues(t, 1, sum.TotalOrders, path)
		assert.InDelta(t, 499.0, sum.TotalRevenue, 0.001, path)
	}

	rec := s.do(t, http.MethodGet, "/api/admin/dashboard/activities", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]transport.Activity](t, rec)
	assert.NotEmpty(t, feed)
}
