package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts hits per key within a fixed window. Implementations must be
// safe for concurrent use.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter answers "may this key consume one more unit right now". The
// backing store is injected so single-instance deployments can use the
// in-process store while multi-instance ones share a Redis store.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

func New(store Store, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow consumes one unit for key and reports whether it was within the
// budget. Store errors fail open: an unavailable limiter backend should
// degrade to unlimited, not take the feature down.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true
	}
	return count <= l.limit
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is the in-process backing store. Expired entries are pruned
// on every pass so the map stays bounded by the number of active keys.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.resetAt) {
			delete(s.entries, k)
		}
	}

	e, ok := s.entries[key]
	if !ok {
		e = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// RedisStore shares the counters across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	full := s.prefix + key
	count, err := s.client.Incr(ctx, full).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = s.client.Expire(ctx, full, window).Err()
	}
	return count, nil
}
