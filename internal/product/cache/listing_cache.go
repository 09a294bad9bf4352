package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// KeyPrefix namespaces every listing entry so admin writes can drop them all
const KeyPrefix = "storefront:listing:"

// ListingCache stores catalogue responses rendered for anonymous viewers.
// A nil cache, or one without a redis client, misses on every read.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) enabled() bool {
	return c != nil && c.client != nil
}

// PageKey is the key of one search page
func PageKey(page, pageSize int, search string) string {
	return hashedKey("page", fmt.Sprintf("%d:%d:%s", page, pageSize, search))
}

// FeaturedKey is the key of the featured list
func FeaturedKey(limit int) string {
	return hashedKey("featured", fmt.Sprintf("%d", limit))
}

func hashedKey(kind, components string) string {
	hash := sha256.Sum256([]byte(components))
	return KeyPrefix + kind + ":" + hex.EncodeToString(hash[:])
}

// Get decodes the entry under key into dest and reports whether it was found
func (c *ListingCache) Get(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Listing cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Discarding unreadable cache entry")
		return false
	}

	logger.Logger.Debug().Str("cache_key", key).Msg("Cache hit")
	return true
}

// Set stores value under key. Failures are logged, the cache is best effort.
func (c *ListingCache) Set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Failed to encode cache entry")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Failed to cache listing")
		return
	}

	logger.Logger.Debug().Str("cache_key", key).Dur("ttl", c.ttl).Int("size", len(data)).Msg("Listing cached")
}

// Invalidate removes every listing entry
func (c *ListingCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	var removed int
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	logger.Logger.Debug().Int("removed", removed).Msg("Listing cache invalidated")
	return nil
}
