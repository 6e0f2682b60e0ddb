// Package cache holds derived read views in process memory.
package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"partyreg/internal/domain"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// InMemory is a typed view over a go-cache instance. Entries expire after
// the default expiration even if nothing invalidates them.
type InMemory[V any] struct {
	useCase string
	cache   *gocache.Cache
	logger  *slog.Logger
}

var _ domain.Cache[int] = (*InMemory[int])(nil)

// NewInMemory returns an InMemory cache; useCase labels its log lines.
func NewInMemory[V any](useCase string, defaultExpiration, cleanupInterval time.Duration, logger *slog.Logger) *InMemory[V] {
	return &InMemory[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
		logger:  logger,
	}
}

func (c *InMemory[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		c.logger.ErrorContext(ctx, "wrong type in cache", "use_case", c.useCase, "key", key)
		return zero, false
	}
	c.logger.DebugContext(ctx, "cache hit", "use_case", c.useCase, "key", key)
	return v, true
}

func (c *InMemory[V]) Set(ctx context.Context, key string, value V) {
	c.cache.SetDefault(key, value)
}

func (c *InMemory[V]) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}
