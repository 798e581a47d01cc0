package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/golf"
)

// CachedProvider decorates a geodata.Provider with Redis caching for the
// per-hole survey data the trajectory engine reads on every shot: optimal
// paths, strategic points and hole metadata. Position-dependent queries
// (distances, terrain, obstacle intersection) pass through untouched; their
// inputs are continuous coordinates and never repeat.
type CachedProvider struct {
	geodata.Provider
	cache  *CacheService
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedProvider(provider geodata.Provider, cache *CacheService, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	return &CachedProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func (p *CachedProvider) AllOptimalPaths(ctx context.Context, holeID int64) ([]golf.OptimalPath, error) {
	key := HolePathsCacheKey(holeID)

	var cached []golf.OptimalPath
	if hit := p.lookup(ctx, key, &cached); hit {
		return cached, nil
	}

	paths, err := p.Provider.AllOptimalPaths(ctx, holeID)
	if err != nil {
		return nil, err
	}

	p.store(ctx, key, paths)
	return paths, nil
}

func (p *CachedProvider) StrategicPoints(ctx context.Context, holeID int64) ([]golf.StrategicPoint, error) {
	key := HoleStrategicCacheKey(holeID)

	var cached []golf.StrategicPoint
	if hit := p.lookup(ctx, key, &cached); hit {
		return cached, nil
	}

	points, err := p.Provider.StrategicPoints(ctx, holeID)
	if err != nil {
		return nil, err
	}

	p.store(ctx, key, points)
	return points, nil
}

func (p *CachedProvider) HoleByID(ctx context.Context, holeID int64) (*golf.HoleInfo, error) {
	key := HoleInfoCacheKey(holeID)

	var cached golf.HoleInfo
	if hit := p.lookup(ctx, key, &cached); hit {
		return &cached, nil
	}

	info, err := p.Provider.HoleByID(ctx, holeID)
	if err != nil {
		return nil, err
	}

	p.store(ctx, key, info)
	return info, nil
}

// InvalidateHole drops every cached entry for a hole so a survey edit shows
// up without waiting out the TTL.
func (p *CachedProvider) InvalidateHole(ctx context.Context, holeID int64) error {
	return p.cache.Delete(ctx,
		HolePathsCacheKey(holeID),
		HoleStrategicCacheKey(holeID),
		HoleInfoCacheKey(holeID),
	)
}

// lookup reads a key into dest. A miss or a cache failure both report false;
// the read path never fails because Redis did.
func (p *CachedProvider) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := p.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrCacheMiss) {
		p.logger.WithError(err).WithField("key", key).Warn("geodata cache read failed")
	}
	return false
}

func (p *CachedProvider) store(ctx context.Context, key string, value interface{}) {
	if err := p.cache.Set(ctx, key, value, p.ttl); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("geodata cache write failed")
	}
}
