package market

import "time"

// NewRedisCacheWithClient wires a RedisCache around an injected client so
// tests can drive the hit, miss and degrade paths without a live Redis.
func NewRedisCacheWithClient(next Provider, client redisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{next: next, rdb: client, ttl: ttl}
}
