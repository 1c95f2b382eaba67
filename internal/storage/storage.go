// Package storage provides the key-value backends the cart is persisted to.
// Every Store is bound to a single key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Driver names a Store implementation.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
	DriverSQLite Driver = "sqlite"
)

// ErrStorage wraps every backend read or write failure.
var ErrStorage = errors.New("storage failure")

// Store loads and saves one serialized value.
type Store interface {
	// Load returns nil, nil when the key holds nothing.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Options selects and configures a Store.
type Options struct {
	Driver        Driver
	Key           string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
}

// Open builds the Store selected by opts.Driver (default memory).
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Key == "" {
		return nil, errors.New("storage key is required")
	}
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.Key, opts.TTL)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath, opts.Key)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", opts.Driver)
	}
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
