package auth

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter tracks failed logins per caller and enforces a lockout window.
type Limiter interface {
	Locked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// ------------------------------------------------------
// Redis limiter
// ------------------------------------------------------

// RedisLimiter counts failures in redis with a TTL, so the lockout survives
// restarts and is shared across replicas.
type RedisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *RedisLimiter) key(key string) string {
	return "login_failures:" + key
}

func (l *RedisLimiter) Locked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(key)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.maxAttempts, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.key(key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.client.Expire(ctx, k, l.window).Err()
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

// ------------------------------------------------------
// In-memory limiter
// ------------------------------------------------------

// MemoryLimiter is the redis-less fallback for single-instance deployments
// and tests.
type MemoryLimiter struct {
	mu          sync.Mutex
	failures    map[string]int
	firstSeen   map[string]time.Time
	maxAttempts int
	window      time.Duration
}

func NewMemoryLimiter(maxAttempts int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		failures:    make(map[string]int),
		firstSeen:   make(map[string]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *MemoryLimiter) Locked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(key)
	return l.failures[key] >= l.maxAttempts, nil
}

func (l *MemoryLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(key)
	if l.failures[key] == 0 {
		l.firstSeen[key] = time.Now()
	}
	l.failures[key]++
	return nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, key)
	delete(l.firstSeen, key)
	return nil
}

// expire drops a stale counter; callers hold the lock.
func (l *MemoryLimiter) expire(key string) {
	if t, ok := l.firstSeen[key]; ok && time.Since(t) > l.window {
		delete(l.failures, key)
		delete(l.firstSeen, key)
	}
}
