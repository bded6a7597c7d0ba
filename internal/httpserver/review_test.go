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

func TestReviews_Lifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, bobToken := s.seedUser(t, "Bob", "bob@x.com", models.RoleUser)

	body := echo.Map{"serviceId": "7", "rating": 4, "comment": "lovely"}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/reviews", "", body).Code)

	rec := s.do(t, http.MethodPost, "/api/reviews", annToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[models.Review](t, rec)
	assert.Equal(t, "Ann", review.UserName)

	rec = s.do(t, http.MethodPost, "/api/reviews", annToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/reviews", bobToken, echo.Map{"serviceId": 7, "rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/reviews/service/7", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Review](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/reviews/service/7/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[transport.ReviewStats](t, rec)
	assert.EqualValues(t, 1, stats.TotalReviews)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)

	helpful := fmt.Sprintf("/api/reviews/%d/helpful", review.ID)
	rec = s.do(t, http.MethodPost, helpful, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[models.Review](t, rec).HelpfulCount)

	path := fmt.Sprintf("/api/reviews/%d", review.ID)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, bobToken, nil).Code)

	rec = s.do(t, http.MethodPut, path, annToken, echo.Map{"rating": 5, "comment": "even better"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, decode[models.Review](t, rec).Rating)

	rec = s.do(t, http.MethodDelete, path, annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review deleted successfully", decode[echo.Map](t, rec)["message"])
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, helpful, "", nil).Code)
}

func TestReviews_AllIsAdminOnly(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, annToken := s.seedUser(t, "Ann", "ann@x.com", models.RoleUser)
	_, adminToken := s.seedUser(t, "Admin", "info@kalakriti.com", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/reviews/all", annToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/reviews/all", adminToken, nil).Code)
}
