// Package redis provides a Redis implementation of secrets.Store using
// go-redis v9. Secrets are stored as plain string keys under a prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rhuss/brandsmith/pkg/debug"
	"github.com/rhuss/brandsmith/pkg/secrets"
)

// DefaultPrefix is prepended to every secret name.
const DefaultPrefix = "brandsmith:secret:"

// Config holds Redis connection settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string

	Password string
	DB       int

	// Prefix is prepended to secret names to form keys (default: DefaultPrefix).
	Prefix string
}

// Store is a Redis-backed secret store.
type Store struct {
	client *goredis.Client
	prefix string
}

// Ensure Store implements secrets.Store at compile time.
var _ secrets.Store = (*Store)(nil)

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: addr is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client. An empty prefix selects DefaultPrefix.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Get returns the value stored under name.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", secrets.ErrNotFound
		}
		return "", fmt.Errorf("reading secret: %w", err)
	}

	debug.Log("secrets", "redis get", "name", name)
	return value, nil
}

// Set stores value under name without expiry.
func (s *Store) Set(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("writing secret: %w", err)
	}

	debug.Log("secrets", "redis set", "name", name)
	return nil
}

// HealthCheck pings the Redis server.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
