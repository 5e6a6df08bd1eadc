package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
)

const catalogCacheKey = "catalog:motorbikes"

func motorbikeCacheKey(id string) string {
	return fmt.Sprintf("motorbike:%s", id)
}

// CatalogService is the read side of the catalog shared by every visitor.
// Responses are cached in Redis; dashboard writes invalidate them.
type CatalogService struct {
	api    ports.CatalogAPI
	cache  ports.CachePort
	logger ports.LoggerPort
	ttl    time.Duration
}

func NewCatalogService(api ports.CatalogAPI, cache ports.CachePort, logger ports.LoggerPort, ttl time.Duration) *CatalogService {
	return &CatalogService{
		api:    api,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
	}
}

func (s *CatalogService) ListMotorbikes(ctx context.Context) ([]domain.Motorbike, error) {
	cachedData, err := s.cache.Get(ctx, catalogCacheKey)
	if err == nil {
		var bikes []domain.Motorbike
		if err := json.Unmarshal(cachedData, &bikes); err == nil {
			s.logger.Debug("Catalog found in cache", map[string]interface{}{
				"count": len(bikes),
			})
			return bikes, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("Failed to read catalog cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	bikes, err := s.api.ListMotorbikes(ctx)
	if err != nil {
		s.logger.Error("Failed to list motorbikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.store(ctx, catalogCacheKey, bikes)

	s.logger.Info("Retrieved catalog", map[string]interface{}{
		"count": len(bikes),
	})
	return bikes, nil
}

func (s *CatalogService) GetMotorbike(ctx context.Context, id string) (*domain.Motorbike, error) {
	if id == "" {
		return nil, fmt.Errorf("motorbike id: %w", domain.ErrNotFound)
	}

	cacheKey := motorbikeCacheKey(id)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var bike domain.Motorbike
		if err := json.Unmarshal(cachedData, &bike); err == nil {
			s.logger.Debug("Motorbike found in cache", map[string]interface{}{
				"motorbike_id": id,
			})
			return &bike, nil
		}
	}

	bike, err := s.api.GetMotorbike(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get motorbike", map[string]interface{}{
			"error":        err.Error(),
			"motorbike_id": id,
		})
		return nil, err
	}

	s.store(ctx, cacheKey, bike)
	return bike, nil
}

// InvalidateCatalog drops the cached list and the given motorbikes.
func (s *CatalogService) InvalidateCatalog(ids ...string) {
	keys := []string{catalogCacheKey}
	for _, id := range ids {
		keys = append(keys, motorbikeCacheKey(id))
	}
	if err := s.cache.Delete(context.Background(), keys...); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", map[string]interface{}{
			"error": err.Error(),
			"keys":  keys,
		})
	}
}

func (s *CatalogService) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("Failed to marshal for cache", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("Failed to cache", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}
}
