package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Compile-time checks
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// RedisStore keeps the two cache fields as plain string keys. Keys get no
// expiry; freshness is decided by the reader.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	vals, err := r.client.MGet(ctx, key, TimestampKey(key)).Result()
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis mget %s: %w", key, err)
	}
	payload, _ := vals[0].(string)
	ts, _ := vals[1].(string)
	e, ok := decodeEntry(payload, ts)
	return e, ok, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, e.Payload, 0)
	pipe.Set(ctx, TimestampKey(key), encodeTimestamp(e.StoredAt), 0)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
