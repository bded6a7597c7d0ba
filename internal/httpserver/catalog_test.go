package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalakriti/backend/internal/models"
)

func TestCatalog_Art(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/api/art", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/api/art/category/madhubani", "", nil).Code)

	body := echo.Map{"title": "Lotus", "category": "Madhubani", "price": 2500, "tags": []string{"folk"}}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/art", annToken, body).Code)

	rec := s.do(t, http.MethodPost, "/api/art", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	art := decode[models.Art](t, rec)
	assert.Equal(t, models.ArtStatusPending, art.Status)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/art/%d", art.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lotus", decode[models.Art](t, rec).Title)

	rec = s.do(t, http.MethodGet, "/api/art/category/madhubani", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Art](t, rec), 1)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/art/999", "", nil).Code)
}

func TestCatalog_Services(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/services", adminToken, echo.Map{"name": "Mandala Art", "category": "Painting", "price": "1500"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decode[models.ServiceItem](t, rec)

	req := multipartRequest(t, "/api/services/addservice", map[string]string{
		"name": "Clay Pot", "category": "Pottery", "price": "700",
	}, "image", map[string]string{"pot.jpg": "jpg"})
	rec = s.send(req, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pot := decode[models.ServiceItem](t, rec)
	assert.True(t, strings.HasPrefix(pot.Image, "/uploads/services/"), pot.Image)

	rec = s.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ServiceItem](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/services/category/pottery", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ServiceItem](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/services/search?q=mandala", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]models.ServiceItem](t, rec)
	require.Len(t, hits, 1)
	assert.Equal(t, item.ServiceID, hits[0].ServiceID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/services/search?q=", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/services/search?q=x&limit=abc", "", nil).Code)

	path := fmt.Sprintf("/api/services/%d", item.ServiceID)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, "", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, "", nil).Code)
}

func TestCatalog_Uploads(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	req := multipartRequest(t, "/api/services/upload", nil, "file", map[string]string{"a.png": "png"})
	rec := s.send(req, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url, _ := decode[echo.Map](t, rec)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/services/"), url)

	req = multipartRequest(t, "/image/upload", nil, "file", map[string]string{"b.png": "png"})
	rec = s.send(req, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "/uploads/services/"), rec.Body.String())

	req = multipartRequest(t, "/image/upload", nil, "file", nil)
	assert.Equal(t, http.StatusBadRequest, s.send(req, adminToken).Code)

	req = multipartRequest(t, "/image/upload", nil, "file", map[string]string{"page.html": "<script>alert(1)</script>"})
	assert.Equal(t, http.StatusBadRequest, s.send(req, adminToken).Code)

	req = multipartRequest(t, "/image/upload", nil, "file", map[string]string{"b.png": "png"})
	assert.Equal(t, http.StatusUnauthorized, s.send(req, "").Code)
}
