package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kalakriti/backend/internal/models"
)

type RatingCount struct {
	Rating int
	Count  int64
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return translate(r.DB.WithContext(ctx).Create(review).Error)
}

func (r *GormRepo) SaveReview(ctx context.Context, review *models.Review) error {
	return translate(r.DB.WithContext(ctx).Save(review).Error)
}

func (r *GormRepo) ReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *GormRepo) ReviewExists(ctx context.Context, userID, serviceID uint) (bool, error) {
	return r.exists(ctx, &models.Review{}, "user_id = ? AND service_id = ?", userID, serviceID)
}

func (r *GormRepo) ReviewsByService(ctx context.Context, serviceID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := newestFirst(r.DB.WithContext(ctx)).Where("service_id = ?", serviceID).Find(&reviews).Error
	return reviews, err
}

func (r *GormRepo) ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := newestFirst(r.DB.WithContext(ctx)).Where("user_id = ?", userID).Find(&reviews).Error
	return reviews, err
}

func (r *GormRepo) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := newestFirst(r.DB.WithContext(ctx)).Find(&reviews).Error
	return reviews, err
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementReviewCounter bumps helpful_count or not_helpful_count in one statement.
func (r *GormRepo) IncrementReviewCounter(ctx context.Context, id uint, column string) (*models.Review, error) {
	res := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.ReviewByID(ctx, id)
}

func (r *GormRepo) RatingCounts(ctx context.Context, serviceID uint) ([]RatingCount, error) {
	var rows []RatingCount
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("service_id = ?", serviceID).
		Group("rating").
		Scan(&rows).Error
	return rows, err
}
