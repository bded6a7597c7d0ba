package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kalakriti/backend/internal/cache"
	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/storage"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

const (
	servicesCachePrefix = "services:"
	serviceUploadDir    = "services"

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

type ServiceIndex interface {
	IndexService(ctx context.Context, item models.ServiceItem) error
	DeleteService(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, limit int) ([]models.ServiceItem, error)
}

// CatalogService serves services and artworks. Service reads go through the
// cache when one is configured; search prefers the index and falls back to SQL.
type CatalogService struct {
	Repo  *repo.GormRepo
	Cache *cache.Cache
	Index ServiceIndex
	Store storage.Store
}

func (s *CatalogService) cached(ctx context.Context, key string, dest any, load func() error) error {
	if s.Cache.Get(ctx, key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, key, dest); err != nil {
		logging.FromContext(ctx).Warn("cache_set_failed", "key", key, "error", err)
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.Cache.DeletePrefix(ctx, servicesCachePrefix); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "error", err)
	}
}

func (s *CatalogService) Services(ctx context.Context) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := s.cached(ctx, servicesCachePrefix+"all", &items, func() (err error) {
		items, err = s.Repo.ListServices(ctx)
		return err
	})
	return items, err
}

func (s *CatalogService) Service(ctx context.Context, id uint) (*models.ServiceItem, error) {
	var item models.ServiceItem
	err := s.cached(ctx, servicesCachePrefix+"id:"+strconv.FormatUint(uint64(id), 10), &item, func() error {
		found, err := s.Repo.ServiceByID(ctx, id)
		if err != nil {
			return err
		}
		item = *found
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: service %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

func (s *CatalogService) ServicesByCategory(ctx context.Context, category string) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	key := servicesCachePrefix + "category:" + strings.ToLower(strings.TrimSpace(category))
	err := s.cached(ctx, key, &items, func() (err error) {
		items, err = s.Repo.ServicesByCategory(ctx, category)
		return err
	})
	return items, err
}

func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]models.ServiceItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if s.Index != nil {
		items, err := s.Index.Search(ctx, query, limit)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "fallback", "sql", "error", err)
	}
	return s.Repo.SearchServices(ctx, query, limit)
}

func (s *CatalogService) CreateService(ctx context.Context, req transport.ServiceRequest) (*models.ServiceItem, error) {
	item := &models.ServiceItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Price:       strings.TrimSpace(req.Price),
		Image:       strings.TrimSpace(req.Image),
		Description: strings.TrimSpace(req.Description),
	}
	if item.Name == "" || item.Category == "" || item.Price == "" {
		return nil, fmt.Errorf("%w: name, category and price are required", ErrValidation)
	}

	if err := s.Repo.CreateService(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.IndexService(ctx, *item); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "service_id", item.ServiceID, "error", err)
		}
	}
	return item, nil
}

// CreateServiceWithImage uploads the optional image and stores the service
// pointing at it.
func (s *CatalogService) CreateServiceWithImage(ctx context.Context, req transport.ServiceRequest, image *Upload) (*models.ServiceItem, error) {
	if image != nil {
		url, err := s.Upload(ctx, *image)
		if err != nil {
			return nil, err
		}
		req.Image = url
	}
	return s.CreateService(ctx, req)
}

func (s *CatalogService) DeleteService(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteService(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: service %d", ErrNotFound, id)
		}
		return err
	}
	s.invalidate(ctx)
	if s.Index != nil {
		if err := s.Index.DeleteService(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "service_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) Upload(ctx context.Context, file Upload) (string, error) {
	key, contentType, err := storage.NewKey(serviceUploadDir, file.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	url, err := s.Store.Put(ctx, key, file.Body, contentType)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", file.Filename, err)
	}
	return url, nil
}

func (s *CatalogService) Art(ctx context.Context) ([]models.Art, error) {
	return s.Repo.ListArt(ctx)
}

func (s *CatalogService) ArtByID(ctx context.Context, id uint) (*models.Art, error) {
	art, err := s.Repo.ArtByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: art %d", ErrNotFound, id)
		}
		return nil, err
	}
	return art, nil
}

func (s *CatalogService) ArtByCategory(ctx context.Context, category string) ([]models.Art, error) {
	return s.Repo.ArtByCategory(ctx, category)
}

func (s *CatalogService) CreateArt(ctx context.Context, req transport.ArtRequest) (*models.Art, error) {
	art := &models.Art{
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Status:      strings.ToUpper(strings.TrimSpace(req.Status)),
		Image:       strings.TrimSpace(req.Image),
		Tags:        models.Tags(req.Tags),
	}
	if art.Title == "" || art.Category == "" {
		return nil, fmt.Errorf("%w: title and category are required", ErrValidation)
	}
	if art.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if art.Status == "" {
		art.Status = models.ArtStatusPending
	}
	if err := s.Repo.CreateArt(ctx, art); err != nil {
		return nil, err
	}
	return art, nil
}
