package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/pkg/logging"
	"github.com/kalakriti/backend/pkg/tokens"
)

const (
	emailKey = "user_email"
	roleKey  = "role"
)

// ErrUnknownUser is returned by a RoleLookup when the token subject has no
// stored account.
var ErrUnknownUser = errors.New("unknown user")

type TokenVerifier interface {
	Verify(token string) (*tokens.AccessClaims, error)
}

type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// Authenticate establishes the caller identity from a bearer token. It never
// rejects a request: a missing or invalid token leaves it unauthenticated.
func Authenticate(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			claims, err := v.Verify(raw)
			if err != nil {
				logging.FromContext(c.Request().Context()).Debug("token_rejected", "error", err)
				return next(c)
			}

			c.Set(emailKey, claims.Email())
			c.SetRequest(c.Request().WithContext(logging.With(c.Request().Context(), "user_email", claims.Email())))
			return next(c)
		}
	}
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := EmailFrom(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// RequireRole checks the caller's role against a fresh store lookup.
func RequireRole(lookup RoleLookup, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := EmailFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			ctx := c.Request().Context()
			role, err := lookup.RoleOf(ctx, email)
			if err != nil {
				if errors.Is(err, ErrUnknownUser) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				logging.FromContext(ctx).Error("role_lookup_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			if !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			c.Set(roleKey, role)
			return next(c)
		}
	}
}

func EmailFrom(c echo.Context) (string, bool) {
	s, ok := c.Get(emailKey).(string)
	return s, ok && s != ""
}

// RoleFrom is only populated behind RequireRole.
func RoleFrom(c echo.Context) string {
	s, _ := c.Get(roleKey).(string)
	return s
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
