package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values under string-like keys with a per-entry TTL.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

// Stats is a snapshot of cache activity.
type Stats struct {
	UseCase string `json:"useCase"`
	Items   int    `json:"items"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}
