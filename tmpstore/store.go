// Package tmpstore keeps rendered parse results in Redis so the same document
// isn't parsed twice while it's hot.
package tmpstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Drolfothesgnir/bbtext/util"
)

// Different key prefixes for different use cases
const (
	DocumentPrefix  = "doc:"
	PlainTextPrefix = "plain:"
)

// ErrCacheMiss is returned when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store caches encoded responses. The values are opaque bytes, usually JSON.
type Store interface {
	SaveResult(ctx context.Context, key string, data []byte, ttl time.Duration) error
	GetResult(ctx context.Context, key string) ([]byte, error)
	DeleteResult(ctx context.Context, key string) error
}

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client *redis.Client
}

func NewStore(config *util.Config) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress, //  default "localhost:6379"
		Password: "",                  // "" for no password, ok for now
		DB:       0,                   // 0 for default database
	})

	return &RedisStore{client: rdb}
}

// Ping checks the connection.
func (store *RedisStore) Ping(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

func (store *RedisStore) Close() error {
	return store.client.Close()
}

// DocumentKey derives the cache key of the text under the prefix.
// The variant separates results of the same text produced with different settings.
func DocumentKey(prefix, variant, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + variant + ":" + hex.EncodeToString(sum[:])
}

func (store *RedisStore) SaveResult(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := store.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result %q: %w", key, err)
	}
	return nil
}

// GetResult returns [ErrCacheMiss] if the key is not found or expired.
func (store *RedisStore) GetResult(ctx context.Context, key string) ([]byte, error) {
	data, err := store.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get result %q: %w", key, err)
	}

	return data, nil
}

func (store *RedisStore) DeleteResult(ctx context.Context, key string) error {
	return store.client.Del(ctx, key).Err()
}
