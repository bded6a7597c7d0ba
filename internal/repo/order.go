package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kalakriti/backend/internal/models"
)

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(order).Error)
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormRepo) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := newestFirst(r.DB.WithContext(ctx)).
		Preload("Items").
		Where("user_id = ?", userID).
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := newestFirst(r.DB.WithContext(ctx)).Preload("Items").Find(&orders).Error
	return orders, err
}

func (r *GormRepo) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := newestFirst(r.DB.WithContext(ctx)).Preload("Items").Limit(limit).Find(&orders).Error
	return orders, err
}

// TransitionOrder loads the order under a row lock and hands it to apply.
// When apply reports a change the new status is written in the same transaction.
func (r *GormRepo) TransitionOrder(ctx context.Context, id uint, apply func(o *models.Order) (bool, error)) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return translate(err)
		}

		changed, err := apply(&order)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", order.Status).Error
	})
	if err != nil {
		return nil, err
	}

	if err := r.DB.WithContext(ctx).Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

// HasPurchased reports whether any order of the user contains the service.
func (r *GormRepo) HasPurchased(ctx context.Context, userID, serviceID uint) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Raw(
		`SELECT EXISTS (
			SELECT 1 FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.user_id = ? AND oi.service_id = ?
		)`, userID, serviceID,
	).Scan(&found).Error
	return found, err
}
