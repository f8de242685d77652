package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a single admission check, per spec.md
// §4.5's decision contract.
type Decision struct {
	Limit     uint32
	Remaining uint32
	ResetUnix int64
	Denied    bool
}

// Limiter checks admission for a (key, config) pair. Both RedisLimiter
// and MemoryLimiter implement it.
type Limiter interface {
	Check(ctx context.Context, key string, cfg Config) Decision
}

// MemoryLimiter is the fixed-window fallback: one mutex guards a map of
// key -> (count, windowStart). It is also used directly in tests, per
// spec.md §4.9's note that the fallback store is not the hot path.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count       uint32
	windowStart time.Time
}

// NewMemoryLimiter builds an empty MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]memoryWindow), now: time.Now}
}

// Check implements Limiter per spec.md §4.5's in-memory algorithm.
func (m *MemoryLimiter) Check(_ context.Context, key string, cfg Config) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.windowStart) >= cfg.Window {
		w = memoryWindow{count: 0, windowStart: now}
	}

	resetUnix := now.Unix() + int64((cfg.Window - now.Sub(w.windowStart)).Seconds())

	var decision Decision
	if w.count < cfg.MaxRequests {
		w.count++
		decision = Decision{
			Limit:     cfg.MaxRequests,
			Remaining: cfg.MaxRequests - w.count,
			ResetUnix: resetUnix,
			Denied:    false,
		}
	} else {
		decision = Decision{
			Limit:     cfg.MaxRequests,
			Remaining: 0,
			ResetUnix: resetUnix,
			Denied:    true,
		}
	}

	m.windows[key] = w
	return decision
}
