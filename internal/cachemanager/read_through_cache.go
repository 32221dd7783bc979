package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache computes a value with fn on a miss and stores it under
// the key derived from the input. Errors are returned and never cached.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache    CacheManager[K, V]
	key      func(input I) K
	fn       func(ctx context.Context, input I) (V, error)
	ttl      time.Duration
	disabled bool
}

// NewReadThroughCache wraps fn. When disabled is true every call goes
// straight to fn.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	key func(input I) K,
	fn func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
	disabled bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:    cache,
		key:      key,
		fn:       fn,
		ttl:      ttl,
		disabled: disabled,
	}
}

// Get returns the cached value for input, computing it on a miss.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, input I) (V, error) {
	if r.disabled {
		return r.fn(ctx, input)
	}

	key := r.key(input)
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, r.ttl)

	return value, nil
}

// GetWithRefresh is Get, but a hit also extends the entry's TTL.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, input I) (V, error) {
	if r.disabled {
		return r.fn(ctx, input)
	}

	key := r.key(input)
	if value, ok := r.cache.GetWithRefresh(ctx, key, r.ttl); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, r.ttl)

	return value, nil
}

// Flush empties the underlying cache.
func (r *ReadThroughCache[K, V, I]) Flush(ctx context.Context) error {
	return r.cache.Flush(ctx)
}
