package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

func newTestCache(t *testing.T) (*CacheService, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewCacheServiceWithClient(client, 5*time.Minute, testLogger()), mock
}

func TestCacheCities(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss Then Hit", func(t *testing.T) {
		cache, mock := newTestCache(t)

		mock.ExpectGet(citiesCacheKey).RedisNil()
		_, ok := cache.GetCities(ctx)
		assert.False(t, ok)

		cities := []string{"Boston", "Chicago"}
		data, err := json.Marshal(cities)
		require.NoError(t, err)

		mock.ExpectSet(citiesCacheKey, data, 5*time.Minute).SetVal("OK")
		cache.SetCities(ctx, cities)

		mock.ExpectGet(citiesCacheKey).SetVal(string(data))
		got, ok := cache.GetCities(ctx)
		assert.True(t, ok)
		assert.Equal(t, cities, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Corrupt Entry Treated As Miss", func(t *testing.T) {
		cache, mock := newTestCache(t)

		mock.ExpectGet(citiesCacheKey).SetVal("not-json")
		_, ok := cache.GetCities(ctx)
		assert.False(t, ok)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCacheSearch(t *testing.T) {
	ctx := context.Background()
	cache, mock := newTestCache(t)

	filter := models.HotelSearchFilter{City: "Chicago", Page: 1, Limit: 10}
	result := &models.HotelSearchResult{
		Hotels: []models.Hotel{},
		Pagination: models.Pagination{
			CurrentPage: 1, TotalPages: 0, TotalHotels: 0, Limit: 10,
		},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	key := searchCacheKey(filter)

	mock.ExpectGet(key).RedisNil()
	_, ok := cache.GetSearch(ctx, filter)
	assert.False(t, ok)

	mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")
	cache.SetSearch(ctx, filter, result)

	mock.ExpectGet(key).SetVal(string(data))
	got, ok := cache.GetSearch(ctx, filter)
	assert.True(t, ok)
	assert.Equal(t, result.Pagination, got.Pagination)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSearchKeyStability(t *testing.T) {
	a := models.HotelSearchFilter{City: "Chicago", Page: 1, Limit: 10}
	b := models.HotelSearchFilter{City: "Chicago", Page: 1, Limit: 10}
	c := models.HotelSearchFilter{City: "Chicago", Page: 2, Limit: 10}

	assert.Equal(t, searchCacheKey(a), searchCacheKey(b))
	assert.NotEqual(t, searchCacheKey(a), searchCacheKey(c))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *CacheService
	ctx := context.Background()

	_, ok := cache.GetCities(ctx)
	assert.False(t, ok)
	cache.SetCities(ctx, []string{"Boston"})

	_, ok = cache.GetSearch(ctx, models.HotelSearchFilter{})
	assert.False(t, ok)
	cache.InvalidateCatalog(ctx)
	assert.NoError(t, cache.Close())
}
