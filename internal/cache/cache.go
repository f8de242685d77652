// Package cache is a thin, optional JSON/TTL layer over Redis, used by
// read paths in internal/apiserver. Every failure is non-fatal: callers
// always fall through to the underlying store on a miss or an error.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a go-redis client. A nil *Cache is valid and behaves as an
// always-miss, always-unhealthy cache, so callers can construct one
// unconditionally from an optional REDIS_URL.
type Cache struct {
	client *redis.Client
}

// New builds a Cache over client. Pass nil to get a no-op Cache (used
// when REDIS_URL is unset, per spec.md §4.6: "Cache is optional").
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get decodes the JSON value stored at key into a T. A miss, a decode
// failure, or any Redis error all return (zero, false) and log instead
// of propagating, per spec.md §4.6.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	if c == nil || c.client == nil {
		return zero, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: get %q failed: %v", key, err)
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Printf("cache: decode %q failed: %v", key, err)
		return zero, false
	}
	return value, true
}

// Set JSON-encodes value and SETEXes it at key with the given ttl. A
// failure is logged, never returned as fatal to the caller.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: encode %q failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache: set %q failed: %v", key, err)
	}
}

// Delete removes key, ignoring (but logging) any error.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("cache: delete %q failed: %v", key, err)
	}
}

// IsHealthy probes connectivity with PING. A nil Cache (no Redis
// configured) reports unhealthy without attempting I/O.
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.Ping(ctx).Err() == nil
}

// PairsListKey is the cache key for the aggregated trading-pair list.
func PairsListKey() string { return "pairs:list" }

// OrderbookKey is the cache key for one (base, quote) orderbook.
func OrderbookKey(base, quote string) string {
	return fmt.Sprintf("orderbook:%s:%s", base, quote)
}

// QuoteKey is the cache key for one (base, quote, amount) quote.
func QuoteKey(base, quote, amount string) string {
	return fmt.Sprintf("quote:%s:%s:%s", base, quote, amount)
}
