// Package storage keeps the persisted JSON payloads of the shop under
// well-known keys. Backends are interchangeable; callers only see KV.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when nothing is stored under a key.
var ErrNotFound = errors.New("storage: key not found")

// Well-known keys.
const (
	KeyProducts    = "safio_products"
	KeyCredentials = "safio_admin_creds"
	KeyOrders      = "safio_orders"
)

// KV is a byte-oriented key/value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Drivers understood by Open.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and parameterises a backend.
type Config struct {
	Driver string `yaml:"driver"`
	// DSN is the file path for sqlite or the connection URL for postgres.
	DSN   string      `yaml:"dsn"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg Config) (KV, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		r, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverSQLite, DriverPostgres:
		s, err := OpenSQL(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
