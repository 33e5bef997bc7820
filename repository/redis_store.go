package repository

import (
	"context"
	"errors"
	"time"

	"go-storefront/services"

	"github.com/redis/go-redis/v9"
)

// RedisCartStorage keeps serialized carts under their session key. Every
// save refreshes the expiry, so an idle cart is dropped after ttl.
type RedisCartStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStorage(rdb *redis.Client, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{rdb: rdb, ttl: ttl}
}

func (s *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (s *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, key, data, s.ttl).Err()
}

type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, "idemp:"+scope+":"+key, "1", s.ttl).Result()
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, "idemp:map:"+scope+":"+key, value, s.ttl).Err()
}

func (s *RedisIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, "idemp:map:"+scope+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, "idemp:"+scope+":"+key).Err()
}

var (
	_ services.CartStorage      = (*RedisCartStorage)(nil)
	_ services.IdempotencyStore = (*RedisIdempotencyStore)(nil)
)
