package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source fetches the catalog from the backend.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Service returns the catalog from cache when it can and from the backend
// otherwise. Cache failures are logged and never surface to the caller.
type Service struct {
	source Source
	cache  Cache
	logger *zap.Logger
	sfg    singleflight.Group
}

// NewService builds a Service. A nil cache makes it a pass-through.
func NewService(source Source, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	// concurrent misses share one backend fetch
	v, err, _ := s.sfg.Do(cacheKey, func() (interface{}, error) {
		if s.cache != nil {
			products, err := s.cache.Get(ctx)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				s.logger.Warn("catalog cache get failed", zap.Error(err))
			}
		}

		products, err := s.source.Products(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go s.store(products)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Invalidate drops the cached catalog.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("catalog cache delete failed", zap.Error(err))
	}
}

func (s *Service) store(products []domain.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, products); err != nil {
		s.logger.Warn("catalog cache set failed", zap.Error(err))
	}
}
