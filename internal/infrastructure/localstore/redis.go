// internal/infrastructure/localstore/redis.go
package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each item as a plain string key
// localstore:<namespace>:<key>, refreshed with the configured TTL on write.
// The site namespace never expires.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend creates a Redis backed store; a zero ttl keeps items forever
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) itemKey(namespace, key string) string {
	return fmt.Sprintf("localstore:%s:%s", namespace, key)
}

func (r *RedisBackend) indexKey(namespace string) string {
	return fmt.Sprintf("localstore:%s:__keys", namespace)
}

func (r *RedisBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.itemKey(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisBackend) ttlFor(namespace string) time.Duration {
	if namespace == SiteNamespace {
		return 0
	}
	return r.ttl
}

func (r *RedisBackend) Set(ctx context.Context, namespace, key, value string) error {
	ttl := r.ttlFor(namespace)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.itemKey(namespace, key), value, ttl)
	pipe.SAdd(ctx, r.indexKey(namespace), key)
	if ttl > 0 {
		pipe.Expire(ctx, r.indexKey(namespace), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, namespace, key string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.itemKey(namespace, key))
	pipe.SRem(ctx, r.indexKey(namespace), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context, namespace string) error {
	keys, err := r.client.SMembers(ctx, r.indexKey(namespace)).Result()
	if err != nil {
		return fmt.Errorf("failed to list namespace %s: %w", namespace, err)
	}

	toDelete := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		toDelete = append(toDelete, r.itemKey(namespace, key))
	}
	toDelete = append(toDelete, r.indexKey(namespace))

	if err := r.client.Del(ctx, toDelete...).Err(); err != nil {
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	return nil
}
