package repo

import (
	"context"
	"strings"

	"github.com/kalakriti/backend/internal/models"
)

func (r *GormRepo) ListServices(ctx context.Context) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := r.DB.WithContext(ctx).Order("service_id ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) ServiceByID(ctx context.Context, id uint) (*models.ServiceItem, error) {
	var item models.ServiceItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *GormRepo) ServicesByCategory(ctx context.Context, category string) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := r.DB.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", category).
		Order("service_id ASC").
		Find(&items).Error
	return items, err
}

// SearchServices is a case-insensitive substring match over name, category and description.
func (r *GormRepo) SearchServices(ctx context.Context, query string, limit int) ([]models.ServiceItem, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var items []models.ServiceItem
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern).
		Order("service_id ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *GormRepo) RecentServices(ctx context.Context, limit int) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("service_id DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *GormRepo) CreateService(ctx context.Context, item *models.ServiceItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) DeleteService(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.ServiceItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListArt(ctx context.Context) ([]models.Art, error) {
	var art []models.Art
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&art).Error
	return art, err
}

func (r *GormRepo) ArtByID(ctx context.Context, id uint) (*models.Art, error) {
	var art models.Art
	if err := r.DB.WithContext(ctx).First(&art, id).Error; err != nil {
		return nil, translate(err)
	}
	return &art, nil
}

func (r *GormRepo) ArtByCategory(ctx context.Context, category string) ([]models.Art, error) {
	var art []models.Art
	err := r.DB.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", category).
		Order("id ASC").
		Find(&art).Error
	return art, err
}

func (r *GormRepo) CreateArt(ctx context.Context, art *models.Art) error {
	return r.DB.WithContext(ctx).Create(art).Error
}
