package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

const (
	citiesCacheKey    = "hotels:cities"
	searchCachePrefix = "hotels:search:"
)

// CacheService caches read-heavy catalog queries in Redis. A nil
// *CacheService is valid and disables caching, so callers never need to
// branch on whether Redis is configured.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCacheService connects to Redis, or returns nil when no address is
// configured.
func NewCacheService(cfg config.RedisConfig, logger *logrus.Logger) (*CacheService, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CacheService{client: client, ttl: cfg.CacheTTL, logger: logger}, nil
}

// NewCacheServiceWithClient wraps an existing client, used in tests
func NewCacheServiceWithClient(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CacheService {
	return &CacheService{client: client, ttl: ttl, logger: logger}
}

// GetCities returns the cached city list, or false on a miss
func (s *CacheService) GetCities(ctx context.Context) ([]string, bool) {
	if s == nil {
		return nil, false
	}

	data, err := s.client.Get(ctx, citiesCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Cities cache read failed")
		}
		return nil, false
	}

	var cities []string
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, false
	}
	return cities, true
}

// SetCities stores the city list
func (s *CacheService) SetCities(ctx context.Context, cities []string) {
	if s == nil {
		return
	}

	data, err := json.Marshal(cities)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, citiesCacheKey, data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("Cities cache write failed")
	}
}

// GetSearch returns a cached search result page, or false on a miss
func (s *CacheService) GetSearch(ctx context.Context, filter models.HotelSearchFilter) (*models.HotelSearchResult, bool) {
	if s == nil {
		return nil, false
	}

	data, err := s.client.Get(ctx, searchCacheKey(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Search cache read failed")
		}
		return nil, false
	}

	var result models.HotelSearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetSearch stores a search result page
func (s *CacheService) SetSearch(ctx context.Context, filter models.HotelSearchFilter, result *models.HotelSearchResult) {
	if s == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, searchCacheKey(filter), data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("Search cache write failed")
	}
}

// InvalidateCatalog drops every cached catalog entry. Called after hotel
// writes; booking traffic does not invalidate, so availability counts in
// cached pages can lag by up to the cache TTL.
func (s *CacheService) InvalidateCatalog(ctx context.Context) {
	if s == nil {
		return
	}

	if err := s.client.Del(ctx, citiesCacheKey).Err(); err != nil {
		s.logger.WithError(err).Warn("Cities cache invalidation failed")
	}

	iter := s.client.Scan(ctx, 0, searchCachePrefix+"*", 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.WithError(err).Warn("Search cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			s.logger.WithError(err).Warn("Search cache invalidation failed")
		}
	}
}

// Close releases the Redis connection
func (s *CacheService) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// searchCacheKey builds a stable key from the filter's JSON form
func searchCacheKey(filter models.HotelSearchFilter) string {
	data, _ := json.Marshal(filter)
	sum := sha256.Sum256(data)
	return searchCachePrefix + hex.EncodeToString(sum[:16])
}
