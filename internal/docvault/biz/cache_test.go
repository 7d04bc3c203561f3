package biz

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to a local Redis, skipping the test when no
// server is reachable.
func newTestRedis(t *testing.T) *goredis.Client {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:6379",
		DialTimeout: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAnswerCacheDisabled(t *testing.T) {
	cache := NewAnswerCache(nil, &AnswerCacheConfig{Enabled: false})

	assert.Nil(t, cache.Get(context.Background(), "owner-1", "question"))
	cache.Set(context.Background(), "owner-1", "question", &CachedAnswer{Answer: "a"})
	assert.Nil(t, cache.Get(context.Background(), "owner-1", "question"))

	stats := cache.Stats(context.Background())
	assert.Equal(t, false, stats["enabled"])
}

func TestAnswerCacheNilConfig(t *testing.T) {
	cache := NewAnswerCache(nil, nil)
	assert.Nil(t, cache.Get(context.Background(), "owner-1", "question"))
}

func TestAnswerCacheKeyScoping(t *testing.T) {
	cache := NewAnswerCache(nil, &AnswerCacheConfig{KeyPrefix: "docvault:answer:"})

	// Same message, different owners: different keys.
	assert.NotEqual(t,
		cache.key("owner-1", "what is go"),
		cache.key("owner-2", "what is go"),
	)
	// Keys are stable.
	assert.Equal(t,
		cache.key("owner-1", "what is go"),
		cache.key("owner-1", "what is go"),
	)
}

func TestAnswerCacheRoundTrip(t *testing.T) {
	client := newTestRedis(t)
	cache := NewAnswerCache(client, &AnswerCacheConfig{
		Enabled:   true,
		TTL:       time.Minute,
		KeyPrefix: "docvault:test:answer:",
	})
	ctx := context.Background()

	t.Cleanup(func() {
		iter := client.Scan(ctx, 0, "docvault:test:answer:*", 0).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	})

	assert.Nil(t, cache.Get(ctx, "owner-1", "question"))

	want := &CachedAnswer{Answer: "the answer", CreatedAt: "2026-08-24T10:00:00Z"}
	cache.Set(ctx, "owner-1", "question", want)

	got := cache.Get(ctx, "owner-1", "question")
	require.NotNil(t, got)
	assert.Equal(t, want, got)

	// Other owners do not see it.
	assert.Nil(t, cache.Get(ctx, "owner-2", "question"))

	stats := cache.Stats(ctx)
	assert.Equal(t, true, stats["enabled"])
}
