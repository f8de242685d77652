package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the primary admission backend: an atomic INCR keyed
// per (endpoint, client), with TTL set on the first hit in a window. It
// fails open on any Redis error, per spec.md §4.5/§4.9's deliberate
// availability bias.
type RedisLimiter struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisLimiter wraps an existing go-redis client or cluster client.
func NewRedisLimiter(client redis.Cmdable) *RedisLimiter {
	return &RedisLimiter{client: client, now: time.Now}
}

// Check implements Limiter. A Redis failure never returns Denied: it
// logs a warning and returns a synthetic allow with remaining == limit.
func (r *RedisLimiter) Check(ctx context.Context, key string, cfg Config) Decision {
	windowSecs := int64(cfg.Window.Seconds())

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("ratelimit: redis INCR failed for key %q (%v), failing open", key, err)
		return r.failOpen(cfg)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, cfg.Window).Err(); err != nil {
			log.Printf("ratelimit: redis EXPIRE failed for key %q (%v), failing open", key, err)
			return r.failOpen(cfg)
		}
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		log.Printf("ratelimit: redis TTL failed for key %q (%v), failing open", key, err)
		return r.failOpen(cfg)
	}
	if ttl < 0 {
		ttl = time.Duration(windowSecs) * time.Second
	}

	reset := r.now().Unix() + int64(ttl.Seconds())
	denied := uint32(count) > cfg.MaxRequests

	var remaining uint32
	if !denied {
		remaining = cfg.MaxRequests - uint32(count)
	}

	return Decision{
		Limit:     cfg.MaxRequests,
		Remaining: remaining,
		ResetUnix: reset,
		Denied:    denied,
	}
}

func (r *RedisLimiter) failOpen(cfg Config) Decision {
	return Decision{
		Limit:     cfg.MaxRequests,
		Remaining: cfg.MaxRequests,
		ResetUnix: r.now().Unix() + int64(cfg.Window.Seconds()),
		Denied:    false,
	}
}
