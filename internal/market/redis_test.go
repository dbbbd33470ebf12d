package market_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkeating27/Red-Crafter/internal/market"
)

// fakeRedis is an in-memory stand-in for the go-redis client. With down
// set, every command fails the way an unreachable server would.
type fakeRedis struct {
	store map[string][]byte
	down  bool
	sets  int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string][]byte)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.down {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.sets++
	if f.down {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.store[key] = append([]byte(nil), value.([]byte)...)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisCache_CachesSuccessfulSnapshots(t *testing.T) {
	p := newCountingProvider()
	p.listings[7] = listings(100, 120)
	rdb := newFakeRedis()

	c := market.NewRedisCacheWithClient(p, rdb, time.Minute)

	first, err := c.Listings(context.Background(), "Adamantoise", 7)
	require.NoError(t, err)
	second, err := c.Listings(context.Background(), "Adamantoise", 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls[7], "second lookup should be served from redis")
	assert.Equal(t, 1, rdb.sets)
}

func TestRedisCache_DoesNotCacheFailures(t *testing.T) {
	p := newCountingProvider()
	p.errs[9] = errors.New("upstream down")
	rdb := newFakeRedis()

	c := market.NewRedisCacheWithClient(p, rdb, time.Minute)

	_, err := c.Listings(context.Background(), "Adamantoise", 9)
	require.Error(t, err)
	_, err = c.Listings(context.Background(), "Adamantoise", 9)
	require.Error(t, err)

	assert.Equal(t, 2, p.calls[9], "failures must not be cached")
	assert.Zero(t, rdb.sets)
}

func TestRedisCache_UnreachableDegradesToPassThrough(t *testing.T) {
	p := newCountingProvider()
	p.listings[7] = listings(100)
	rdb := newFakeRedis()
	rdb.down = true

	c := market.NewRedisCacheWithClient(p, rdb, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := c.Listings(context.Background(), "Adamantoise", 7)
		require.NoError(t, err)
		assert.Equal(t, listings(100), got)
	}
	assert.Equal(t, 2, p.calls[7], "with redis down every lookup fetches")
}

func TestRedisCache_CorruptEntryIsOverwritten(t *testing.T) {
	p := newCountingProvider()
	p.listings[7] = listings(100)
	rdb := newFakeRedis()
	rdb.store["listings:Adamantoise:7"] = []byte("{not json")

	c := market.NewRedisCacheWithClient(p, rdb, time.Minute)

	got, err := c.Listings(context.Background(), "Adamantoise", 7)
	require.NoError(t, err)
	assert.Equal(t, listings(100), got)
	assert.Equal(t, 1, p.calls[7])
	assert.Equal(t, 1, rdb.sets, "the bad entry is replaced")
}
