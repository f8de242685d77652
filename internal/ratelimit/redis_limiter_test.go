package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// erroringCmdable implements just enough of redis.Cmdable to make every
// command RedisLimiter issues fail, so tests can exercise the fail-open
// path without a live Redis server.
type erroringCmdable struct {
	redis.Cmdable
}

func (e *erroringCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(errors.New("redis unavailable"))
	return cmd
}

func (e *erroringCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetErr(errors.New("redis unavailable"))
	return cmd
}

func (e *erroringCmdable) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	cmd.SetErr(errors.New("redis unavailable"))
	return cmd
}

func TestRedisLimiterFailsOpenOnError(t *testing.T) {
	limiter := NewRedisLimiter(&erroringCmdable{})
	cfg := Config{MaxRequests: 5, Window: time.Minute}

	d := limiter.Check(context.Background(), "rate_limit:pairs:10.0.0.1", cfg)

	if d.Denied {
		t.Fatal("expected fail-open (allow) when redis errors")
	}
	if d.Remaining != cfg.MaxRequests {
		t.Errorf("remaining = %d, want %d (== limit)", d.Remaining, cfg.MaxRequests)
	}
}

// succeedingCmdable backs Incr/Expire/TTL with in-memory counters so
// RedisLimiter's happy path can be exercised without a live server.
type succeedingCmdable struct {
	redis.Cmdable
	counts map[string]int64
}

func (s *succeedingCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(s.counts[key])
	return cmd
}

func (s *succeedingCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (s *succeedingCmdable) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Minute)
	cmd.SetVal(time.Minute)
	return cmd
}

func TestRedisLimiterDeniesOverLimit(t *testing.T) {
	backend := &succeedingCmdable{}
	limiter := NewRedisLimiter(backend)
	cfg := Config{MaxRequests: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		d := limiter.Check(context.Background(), "rate_limit:pairs:10.0.0.1", cfg)
		if d.Denied {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	d := limiter.Check(context.Background(), "rate_limit:pairs:10.0.0.1", cfg)
	if !d.Denied {
		t.Fatal("3rd request should be denied")
	}
}
