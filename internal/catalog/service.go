package catalog

import (
	"context"

	"github.com/bozowang/fdsell/internal/domain"
	"github.com/bozowang/fdsell/internal/supplier"
	"go.uber.org/zap"
)

// Service is a read-through catalog in front of the generative supplier.
// Cache faults degrade to supplier-only; supplier faults degrade to an empty
// result with the typed error surfaced to the caller for the notification.
type Service struct {
	supplier supplier.Supplier
	cache    Cache
	logger   *zap.SugaredLogger
}

func NewService(sup supplier.Supplier, cache Cache, logger *zap.SugaredLogger) *Service {
	return &Service{
		supplier: sup,
		cache:    cache,
		logger:   logger,
	}
}

func (s *Service) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if s.cache != nil {
		if restaurants, ok := s.cache.GetRestaurants(ctx); ok {
			return restaurants, nil
		}
	}

	restaurants, err := s.supplier.ListRestaurants(ctx)
	if err != nil {
		s.logger.Errorw("failed to load restaurants", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRestaurants(ctx, restaurants); err != nil {
			s.logger.Warnw("failed to cache restaurants", "error", err)
		}
	}

	return restaurants, nil
}

func (s *Service) Menu(ctx context.Context, restaurantName string) ([]domain.MenuItem, error) {
	if s.cache != nil {
		if items, ok := s.cache.GetMenu(ctx, restaurantName); ok {
			return items, nil
		}
	}

	items, err := s.supplier.ListMenu(ctx, restaurantName)
	if err != nil {
		s.logger.Errorw("failed to load menu", "restaurant", restaurantName, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, restaurantName, items); err != nil {
			s.logger.Warnw("failed to cache menu", "restaurant", restaurantName, "error", err)
		}
	}

	return items, nil
}
