package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockPrefix  = "lock:"
	pingTimeout = 5 * time.Second
)

// RedisLocker: короткие блокировки по ключу поверх SET NX PX.
type RedisLocker struct {
	rdb *redis.Client
	log *zap.Logger
}

// Connect открывает клиент и проверяет соединение PING-ом.
func Connect(ctx context.Context, opts *redis.Options, log *zap.Logger) (*RedisLocker, error) {
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	l := NewRedisLocker(rdb, log)
	l.log.Info("redis locker ready", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return l, nil
}

func NewRedisLocker(rdb *redis.Client, log *zap.Logger) *RedisLocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLocker{rdb: rdb, log: log}
}

func (l *RedisLocker) Close() error { return l.rdb.Close() }

// Acquire возвращает false, если ключ уже занят.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, lockPrefix+key, time.Now().UnixMilli(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire %s: %w", key, err)
	}
	if !ok {
		l.log.Debug("lock busy", zap.String("key", key))
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, lockPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	return nil
}
