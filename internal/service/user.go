package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// UpdateContact changes phone and address of user id. Only the user
// themself or an admin may do so.
func (s *UserService) UpdateContact(ctx context.Context, caller *models.User, id uint, phone, address *string) (*models.User, error) {
	if caller.ID != id && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot update another user", ErrForbidden)
	}
	if phone != nil {
		v := strings.TrimSpace(*phone)
		phone = &v
	}
	if address != nil {
		v := strings.TrimSpace(*address)
		address = &v
	}

	user, err := s.Repo.UpdateUserContact(ctx, id, phone, address)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
