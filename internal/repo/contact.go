package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kalakriti/backend/internal/models"
)

func (r *GormRepo) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	return translate(r.DB.WithContext(ctx).Create(msg).Error)
}

func (r *GormRepo) ListContacts(ctx context.Context) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := newestFirst(r.DB.WithContext(ctx)).Preload("Images").Find(&msgs).Error
	return msgs, err
}

func (r *GormRepo) RecentContacts(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := newestFirst(r.DB.WithContext(ctx)).Preload("Images").Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (r *GormRepo) ContactsByEmail(ctx context.Context, email string) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := newestFirst(r.DB.WithContext(ctx)).
		Preload("Images").
		Where("LOWER(email) = LOWER(?)", email).
		Find(&msgs).Error
	return msgs, err
}

func (r *GormRepo) DeleteContact(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", id).Delete(&models.ContactImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ContactMessage{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormRepo) UpdateContactStatus(ctx context.Context, id uint, status string) (*models.ContactMessage, error) {
	res := r.DB.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var msg models.ContactMessage
	if err := r.DB.WithContext(ctx).Preload("Images").First(&msg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}
