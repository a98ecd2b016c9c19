package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits failed sign-in attempts per key within a fixed window.
type LoginThrottle interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the counter after a successful sign-in.
	Reset(ctx context.Context, key string) error
}

type window struct {
	count int
	ends  time.Time
}

// MemoryThrottle is a process-local fixed-window limiter.
type MemoryThrottle struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryThrottle builds a limiter allowing limit attempts per period.
func NewMemoryThrottle(limit int, period time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (t *MemoryThrottle) Allow(_ context.Context, key string) (bool, error) {
	if t.limit <= 0 {
		return true, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	w, ok := t.windows[key]
	if !ok || now.After(w.ends) {
		t.prune(now)
		t.windows[key] = &window{count: 1, ends: now.Add(t.period)}
		return true, nil
	}
	if w.count >= t.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

func (t *MemoryThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, key)
	return nil
}

func (t *MemoryThrottle) prune(now time.Time) {
	for key, w := range t.windows {
		if now.After(w.ends) {
			delete(t.windows, key)
		}
	}
}

// RedisThrottle shares attempt counters across instances.
type RedisThrottle struct {
	client *redis.Client
	limit  int
	period time.Duration
	prefix string
}

// NewRedisThrottle builds a limiter backed by INCR/EXPIRE.
func NewRedisThrottle(client *redis.Client, limit int, period time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, limit: limit, period: period, prefix: "soporte:login:"}
}

func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.limit <= 0 {
		return true, nil
	}
	redisKey := t.prefix + key
	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := t.client.Expire(ctx, redisKey, t.period).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(t.limit), nil
}

func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.prefix+key).Err()
}
