package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or the cache is
// disabled. Callers treat it as "fetch from the source", never as a failure.
var ErrCacheMiss = errors.New("cache: key not found")

// CacheService wraps Redis with a JSON codec. A nil client is allowed: every
// operation degrades to a no-op so the API keeps serving without Redis.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

// Enabled reports whether a Redis client is attached.
func (s *CacheService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Enabled() {
		return ErrCacheMiss
	}

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}
	return val > 0, nil
}

// Ping reports whether Redis answers. Used by the health endpoint.
func (s *CacheService) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return errors.New("cache disabled")
	}
	return s.client.Ping(ctx).Err()
}

// Flush clears all cache entries. The seeding command calls it after loading
// course data so stale hole geometry never survives a reseed.
func (s *CacheService) Flush(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.FlushDB(ctx).Err()
}

// Cache key generators
func HolePathsCacheKey(holeID int64) string {
	return fmt.Sprintf("caddie:hole:%d:paths", holeID)
}

func HoleStrategicCacheKey(holeID int64) string {
	return fmt.Sprintf("caddie:hole:%d:strategic", holeID)
}

func HoleInfoCacheKey(holeID int64) string {
	return fmt.Sprintf("caddie:hole:%d:info", holeID)
}

// WeatherCacheKey quantizes coordinates to ~100 m so nearby requests share an
// entry.
func WeatherCacheKey(lat, lon float64) string {
	return fmt.Sprintf("caddie:weather:%.3f:%.3f", lat, lon)
}

func PlayerClubsCacheKey(userID string) string {
	return fmt.Sprintf("caddie:player:%s:clubs", userID)
}
