package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "keystack:sdk:token"

// RedisAdapter stores the token under a single redis key.
type RedisAdapter struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	owned  bool
}

// NewRedisAdapter wraps an existing client. A zero ttl keeps the key forever.
func NewRedisAdapter(client redis.UniversalClient, key string, ttl time.Duration) *RedisAdapter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisAdapter{client: client, key: key, ttl: ttl}
}

// OpenRedisAdapter dials addr and pings it; Close releases the client.
func OpenRedisAdapter(ctx context.Context, opts *redis.Options, key string, ttl time.Duration) (*RedisAdapter, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	a := NewRedisAdapter(client, key, ttl)
	a.owned = true
	return a, nil
}

func (a *RedisAdapter) Store(ctx context.Context, token string) error {
	if err := a.client.Set(ctx, a.key, token, a.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (a *RedisAdapter) Retrieve(ctx context.Context) (string, bool, error) {
	token, err := a.client.Get(ctx, a.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read token: %w", err)
	}
	return token, token != "", nil
}

func (a *RedisAdapter) Clear(ctx context.Context) error {
	if err := a.client.Del(ctx, a.key).Err(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Close closes the client when the adapter dialed it.
func (a *RedisAdapter) Close() error {
	if !a.owned {
		return nil
	}
	return a.client.Close()
}

var _ TokenStorageAdapter = (*RedisAdapter)(nil)
