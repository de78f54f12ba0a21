// Package cacheaside reads through an interfaces.Cache, collapsing
// concurrent misses for the same key into a single load.
package cacheaside

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

type Loader[T any] struct {
	cache  interfaces.Cache
	group  singleflight.Group
	logger logger.Logger
}

func New[T any](cache interfaces.Cache, log logger.Logger) *Loader[T] {
	return &Loader[T]{cache: cache, logger: log}
}

// Get returns the cached value for key or calls load and caches its result.
// Cache failures are logged and fall through to load.
func (l *Loader[T]) Get(ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	found, err := l.cache.Get(ctx, key, &cached)
	if err != nil {
		l.logger.Warn("cache_read_failed", "Cache read failed, loading from database", logger.RequestID(ctx),
			map[string]any{"key": key, "error": err.Error()})
	}
	if found {
		return cached, nil
	}

	// The shared load ignores caller cancellation; each caller stops
	// waiting when its own context is done.
	ch := l.group.DoChan(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(loadCtx, key, value); err != nil {
			l.logger.Warn("cache_write_failed", "Cache write failed", logger.RequestID(loadCtx),
				map[string]any{"key": key, "error": err.Error()})
		}
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops keys. Failures are logged; the TTL bounds staleness.
func (l *Loader[T]) Invalidate(ctx context.Context, keys ...string) {
	if err := l.cache.Delete(ctx, keys...); err != nil {
		l.logger.Warn("cache_invalidate_failed", "Cache invalidation failed", logger.RequestID(ctx),
			map[string]any{"keys": keys, "error": err.Error()})
	}
}

func ProductsKey(scope tenant.Scope) string {
	return "products:" + scope.ID()
}

func TemplatesKey(scope tenant.Scope) string {
	return "delivery_templates:" + scope.ID()
}
