package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/transport"
)

type ReviewService struct {
	Repo *repo.GormRepo
}

func validateReview(req transport.ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return fmt.Errorf("%w: Rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

// Create stores the caller's review of a service. A user may review each
// service once.
func (s *ReviewService) Create(ctx context.Context, author *models.User, req transport.ReviewRequest) (*models.Review, error) {
	if req.ServiceID == 0 {
		return nil, fmt.Errorf("%w: serviceId required", ErrValidation)
	}
	if err := validateReview(req); err != nil {
		return nil, err
	}

	serviceID := uint(req.ServiceID)
	exists, err := s.Repo.ReviewExists(ctx, author.ID, serviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	verified, err := s.Repo.HasPurchased(ctx, author.ID, serviceID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:           author.ID,
		ServiceID:        serviceID,
		UserName:         author.Name,
		Rating:           req.Rating,
		Comment:          strings.TrimSpace(req.Comment),
		ReviewImage:      req.ReviewImage,
		VerifiedPurchase: verified,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ByService(ctx context.Context, serviceID uint) ([]models.Review, error) {
	return s.Repo.ReviewsByService(ctx, serviceID)
}

func (s *ReviewService) ByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	return s.Repo.ReviewsByUser(ctx, userID)
}

func (s *ReviewService) All(ctx context.Context) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx)
}

// Stats reports the average rounded to one decimal and a distribution that
// always carries keys 1 through 5.
func (s *ReviewService) Stats(ctx context.Context, serviceID uint) (*transport.ReviewStats, error) {
	rows, err := s.Repo.RatingCounts(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	stats := &transport.ReviewStats{RatingDistribution: make(map[int]int64, 5)}
	for r := 1; r <= 5; r++ {
		stats.RatingDistribution[r] = 0
	}

	var sum int64
	for _, row := range rows {
		if row.Rating < 1 || row.Rating > 5 {
			continue
		}
		stats.RatingDistribution[row.Rating] = row.Count
		stats.TotalReviews += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}

func (s *ReviewService) MarkHelpful(ctx context.Context, id uint) (*models.Review, error) {
	return s.increment(ctx, id, "helpful_count")
}

func (s *ReviewService) MarkNotHelpful(ctx context.Context, id uint) (*models.Review, error) {
	return s.increment(ctx, id, "not_helpful_count")
}

func (s *ReviewService) increment(ctx context.Context, id uint, column string) (*models.Review, error) {
	review, err := s.Repo.IncrementReviewCounter(ctx, id, column)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, id)
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, userID, id uint, req transport.ReviewRequest) (*models.Review, error) {
	review, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateReview(req); err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Comment = strings.TrimSpace(req.Comment)
	review.ReviewImage = req.ReviewImage
	if err := s.Repo.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: review %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *ReviewService) owned(ctx context.Context, userID, id uint) (*models.Review, error) {
	review, err := s.Repo.ReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, id)
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("%w: You can only modify your own reviews", ErrForbidden)
	}
	return review, nil
}
