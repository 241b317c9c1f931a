package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the production SessionStore. Redis owns entry expiry, so a
// crashed service never leaves immortal session state behind.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, cat Category, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, cat.Key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", cat.Key(key), err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, cat Category, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, cat.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", cat.Key(key), err)
	}

	return value, true, nil
}

func (s *RedisStore) Exists(ctx context.Context, cat Category, key string) (bool, error) {
	n, err := s.client.Exists(ctx, cat.Key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", cat.Key(key), err)
	}

	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, cat Category, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, cat.Key(k))
	}

	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

func (s *RedisStore) ScanPrefix(ctx context.Context, pattern string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	return keys, nil
}
