package kvstore

import (
	"context"
	"errors"
	"fmt"
	"trip-wizard-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// Redis-backed KeyValueStore. Keys are namespaced with Prefix.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Client: client, Prefix: prefix}
}

func (s *RedisStore) key(k string) string { return s.Prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.redis.Get")(&err)

	if s.Client == nil {
		return "", false, errors.New("redis store: client is nil")
	}

	v, err := s.Client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis store get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "kv.redis.Set")(&err)

	if s.Client == nil {
		return errors.New("redis store: client is nil")
	}

	if err := s.Client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis store set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) (err error) {
	defer obs.Time(ctx, "kv.redis.Remove")(&err)

	if s.Client == nil {
		return errors.New("redis store: client is nil")
	}

	if err := s.Client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis store remove %q: %w", key, err)
	}
	return nil
}
