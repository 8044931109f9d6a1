package ports

import (
	"context"
	"errors"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get for an absent key.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher publishes POI change events to a message broker.
type EventPublisher interface {
	PublishPOIEvent(ctx context.Context, event *domain.POIEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	// Incr atomically increments an integer key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
}
