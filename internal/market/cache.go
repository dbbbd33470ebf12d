package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
)

// Snapshot caches sit below the per-session price cache: they only decide
// how fresh a listings snapshot is, never what a session computed from it.
// Both are opt-in; with caching off every session fetch hits the provider
// exactly once per (world, item).

// TTLCache wraps a Provider with an in-process snapshot cache. Only
// successful fetches are cached; failures stay failures so the session
// layer applies its own no-retry policy.
type TTLCache struct {
	next Provider
	c    *gocache.Cache
}

// NewTTLCache caches snapshots from next for ttl.
func NewTTLCache(next Provider, ttl time.Duration) *TTLCache {
	return &TTLCache{
		next: next,
		c:    gocache.New(ttl, 2*ttl),
	}
}

func (t *TTLCache) Listings(ctx context.Context, world string, itemID int) ([]Listing, error) {
	key := snapshotKey(world, itemID)
	if v, ok := t.c.Get(key); ok {
		return v.([]Listing), nil
	}
	listings, err := t.next.Listings(ctx, world, itemID)
	if err != nil {
		return nil, err
	}
	t.c.SetDefault(key, listings)
	return listings, nil
}

// redisClient is the slice of the go-redis API the snapshot cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCache is the shared-cache variant of TTLCache for deployments
// running more than one instance against the same market. Redis being
// unreachable degrades to a plain pass-through fetch.
type RedisCache struct {
	next Provider
	rdb  redisClient
	ttl  time.Duration
}

// NewRedisCache caches snapshots from next in the Redis at addr for ttl.
func NewRedisCache(next Provider, addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		next: next,
		rdb:  redis.NewClient(&redis.Options{Addr: addr}),
		ttl:  ttl,
	}
}

func (r *RedisCache) Listings(ctx context.Context, world string, itemID int) ([]Listing, error) {
	key := snapshotKey(world, itemID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Listing
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		// corrupt entry: fall through and overwrite
	}

	listings, err := r.next.Listings(ctx, world, itemID)
	if err != nil {
		return nil, err
	}
	if raw, jsonErr := json.Marshal(listings); jsonErr == nil {
		r.rdb.Set(ctx, key, raw, r.ttl)
	}
	return listings, nil
}

// Close releases the Redis connection pool.
func (r *RedisCache) Close() error { return r.rdb.Close() }

func snapshotKey(world string, itemID int) string {
	return fmt.Sprintf("listings:%s:%d", world, itemID)
}
