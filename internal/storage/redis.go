package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"wear404_storefront/internal/database"
)

// Redis stores the value under a fixed key with a sliding TTL.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

// OpenRedis connects to addr and returns a Store bound to key.
func OpenRedis(ctx context.Context, addr, password, key string, ttl time.Duration) (*Redis, error) {
	client, err := database.ConnectRedis(ctx, addr, password)
	if err != nil {
		return nil, wrap("connect", err)
	}
	return NewRedis(client, key, ttl), nil
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get", err)
	}
	return data, nil
}

// Save writes the value and restarts its TTL.
func (r *Redis) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return wrap("set", err)
	}
	return nil
}

// Client returns the underlying connection.
func (r *Redis) Client() *redis.Client { return r.client }

func (r *Redis) Close() error { return r.client.Close() }
