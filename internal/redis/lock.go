package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a best-effort SetNX mutex used to keep a single sweeper instance
// active at a time.
type Lock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewLock(rdb *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{rdb: rdb, key: key, ttl: ttl}
}

// Acquire reports whether this process holds the lock for the TTL window.
// When redis is unreachable the lock is granted: a duplicate sweep is
// idempotent, a skipped sweep is not.
func (l *Lock) Acquire(ctx context.Context) bool {
	ok, err := l.rdb.SetNX(ctx, l.key, 1, l.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

func (l *Lock) Release(ctx context.Context) {
	_ = l.rdb.Del(ctx, l.key).Err()
}
