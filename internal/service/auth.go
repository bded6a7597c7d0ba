package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kalakriti/backend/internal/identity"
	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/pkg/hash"
	"github.com/kalakriti/backend/pkg/logging"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
)

type TokenIssuer interface {
	Issue(email string) (string, time.Time, error)
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Profile, error)
}

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   TokenIssuer
	Identity IdentityVerifier
}

// RegisterInput with UniqueName set also rejects a name that is already taken.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Address    string
	UniqueName bool
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
	Google    *identity.Profile
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	exists, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}
	if in.UniqueName {
		taken, err := s.Repo.NameExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateName
		}
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// LoginWithGoogle verifies a Google ID token and provisions a password-less
// account on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.google")

	profile, err := s.Identity.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderToken, err)
	}
	email := NormalizeEmail(profile.Email)

	user, err := s.Repo.UserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNotFound):
		name := strings.TrimSpace(profile.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		user = &models.User{Name: name, Email: email, Role: models.RoleUser}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			if !errors.Is(err, repo.ErrDuplicate) {
				return nil, err
			}
			// lost a race with a concurrent first sign-in
			if user, err = s.Repo.UserByEmail(ctx, email); err != nil {
				return nil, err
			}
		} else {
			l.Info("user_provisioned", "user_id", user.ID)
		}
	default:
		return nil, err
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	res.Google = profile
	return res, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Repo.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// RoleOf satisfies the admin guard's lookup.
func (s *AuthService) RoleOf(ctx context.Context, email string) (string, error) {
	user, err := s.Repo.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", authmw.ErrUnknownUser
		}
		return "", err
	}
	return user.Role, nil
}

// EnsureAdmin creates the administrator account or brings an existing one
// back to the ADMIN role and the configured password. Safe to run on every start.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	if user == nil {
		pwHash, err := hash.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user = &models.User{Name: name, Email: email, PasswordHash: pwHash, Role: models.RoleAdmin}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		l.Info("admin_created", "user_id", user.ID)
		return user, nil
	}

	changed := false
	if user.Role != models.RoleAdmin {
		user.Role = models.RoleAdmin
		changed = true
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		pwHash, err := hash.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = pwHash
		changed = true
	}
	if changed {
		if err := s.Repo.SaveUser(ctx, user); err != nil {
			return nil, err
		}
		l.Info("admin_updated", "user_id", user.ID)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	token, exp, err := s.Tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}
