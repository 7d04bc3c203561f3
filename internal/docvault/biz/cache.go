package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"
)

// AnswerCacheConfig configures the chat answer cache.
type AnswerCacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool
	// TTL is the answer expiry.
	TTL time.Duration
	// KeyPrefix namespaces cache keys.
	KeyPrefix string
}

// CachedAnswer is the cached payload for one (owner, message) pair.
type CachedAnswer struct {
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

// AnswerCache caches complete chat answers in Redis. Only answers are
// cached, never chunk records, and keys are scoped per owner.
type AnswerCache struct {
	redis  *goredis.Client
	config *AnswerCacheConfig
}

// NewAnswerCache creates the answer cache. A nil client or disabled
// config yields a cache where Get always misses and Set is a no-op.
func NewAnswerCache(redis *goredis.Client, config *AnswerCacheConfig) *AnswerCache {
	if config == nil {
		config = &AnswerCacheConfig{
			Enabled:   false,
			TTL:       time.Hour,
			KeyPrefix: "docvault:answer:",
		}
	}
	return &AnswerCache{
		redis:  redis,
		config: config,
	}
}

// key derives the cache key from the owner and message.
func (c *AnswerCache) key(ownerID, message string) string {
	hash := sha256.Sum256([]byte(ownerID + "\x00" + message))
	return c.config.KeyPrefix + hex.EncodeToString(hash[:])
}

// Get returns the cached answer for the owner's message, or nil on
// miss. Cache errors are logged and reported as misses.
func (c *AnswerCache) Get(ctx context.Context, ownerID, message string) *CachedAnswer {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	cacheKey := c.key(ownerID, message)
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("answer cache read failed", "error", err.Error(), "key", cacheKey)
		}
		return nil
	}

	var answer CachedAnswer
	if err := json.Unmarshal(data, &answer); err != nil {
		logger.Warnw("corrupt cached answer, evicting", "error", err.Error(), "key", cacheKey)
		_ = c.redis.Del(ctx, cacheKey).Err()
		return nil
	}

	logger.Debugw("answer cache hit", "key", cacheKey)
	return &answer
}

// Set caches the answer for the owner's message. Failures are logged
// and never fail the caller.
func (c *AnswerCache) Set(ctx context.Context, ownerID, message string, answer *CachedAnswer) {
	if !c.config.Enabled || c.redis == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		logger.Warnw("failed to marshal answer for caching", "error", err.Error())
		return
	}

	cacheKey := c.key(ownerID, message)
	if err := c.redis.Set(ctx, cacheKey, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("answer cache write failed", "error", err.Error(), "key", cacheKey)
	}
}

// Stats reports cache configuration and the current key count.
func (c *AnswerCache) Stats(ctx context.Context) map[string]any {
	if !c.config.Enabled || c.redis == nil {
		return map[string]any{"enabled": false}
	}

	keyCount := 0
	iter := c.redis.Scan(ctx, 0, c.config.KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keyCount++
	}
	if err := iter.Err(); err != nil {
		logger.Warnw("answer cache scan failed", "error", err.Error())
	}

	return map[string]any{
		"enabled":    true,
		"key_count":  keyCount,
		"ttl":        c.config.TTL.String(),
		"key_prefix": c.config.KeyPrefix,
	}
}
