package repo

import (
	"context"

	"github.com/kalakriti/backend/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Save(u).Error)
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, &models.User{}, "email = ?", email)
}

func (r *GormRepo) NameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, &models.User{}, "name = ?", name)
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserContact changes only the non-nil fields.
func (r *GormRepo) UpdateUserContact(ctx context.Context, id uint, phone, address *string) (*models.User, error) {
	updates := map[string]any{}
	if phone != nil {
		updates["phone"] = *phone
	}
	if address != nil {
		updates["address"] = *address
	}

	db := r.DB.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.UserByID(ctx, id)
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) RecentUsers(ctx context.Context, role string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *GormRepo) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
