package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Google(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.google")

	var req transport.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("google_login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.LoginWithGoogle(ctx, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProviderToken) {
			l.Warn("google_login_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Google token")
		}
		return fail(l, "google_login_failed", err)
	}

	l.Info("google_login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"email":    res.User.Email,
		"name":     res.User.Name,
		"picture":  res.Google.Picture,
		"googleId": res.Google.Subject,
		"role":     res.User.Role,
		"id":       res.User.ID,
		"token":    res.Token,
		"message":  "Google login successful",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return fail(l, "login_failed", err)
	}

	u := res.User
	l.Info("login_success", "user_id", u.ID, "role", u.Role)
	return c.JSON(http.StatusOK, echo.Map{
		"role":    u.Role,
		"token":   res.Token,
		"email":   u.Email,
		"name":    u.Name,
		"id":      u.ID,
		"phone":   u.Phone,
		"address": u.Address,
		"message": "Login successful",
	})
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, err := h.Svc.Register(ctx, service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone, Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			l.Warn("signup_failed", "status", 400, "reason", "email taken")
			return echo.NewHTTPError(http.StatusBadRequest, "Email is already taken!")
		}
		return fail(l, "signup_failed", err)
	}

	l.Info("signup_success")
	return message(c, http.StatusOK, "User registered successfully!")
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	email, ok := authmw.EmailFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	u, err := h.Svc.CurrentUser(ctx, email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("me_failed", "status", 404, "reason", "user not found")
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return fail(l, "me_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"name":    u.Name,
		"email":   u.Email,
		"role":    u.Role,
		"id":      u.ID,
		"phone":   u.Phone,
		"address": u.Address,
	})
}

// Register is the older sign-up endpoint: 201 on success and a 409 for a
// taken email or name.
func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, err := h.Svc.Register(ctx, service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Phone: req.Phone, Address: req.Address,
		UniqueName: true,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		l.Warn("register_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "name, Email and Password are required")
	case errors.Is(err, service.ErrDuplicateEmail):
		l.Warn("register_failed", "status", 409, "reason", "email exists")
		return echo.NewHTTPError(http.StatusConflict, "Email already exists")
	case errors.Is(err, service.ErrDuplicateName):
		l.Warn("register_failed", "status", 409, "reason", "name exists")
		return echo.NewHTTPError(http.StatusConflict, "Username already exists")
	default:
		return fail(l, "register_failed", err)
	}

	l.Info("register_success")
	return message(c, http.StatusCreated, "User registered successfully")
}

// LegacyLogin distinguishes an unknown account (404) from a bad password (401).
func (h *AuthHTTP) LegacyLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.legacy_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		l.Warn("login_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Email and Password are required")
	case errors.Is(err, service.ErrNotFound):
		l.Warn("login_failed", "status", 404, "reason", "user not found")
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn("login_failed", "status", 401, "reason", "invalid password")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	default:
		return fail(l, "login_failed", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   res.Token,
		"name":    res.User.Name,
	})
}
