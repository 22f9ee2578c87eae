package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wickhaven/storefront-backend/pkg/config"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore persists session state in Redis.
type RedisStore struct {
	store cmdable
	raw   *redis.Client
}

// NewRedis bootstraps a Redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Get returns the string value stored at key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", errors.New("redis store not initialized")
	}
	val, err := s.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// Set stores the value without expiry; session state lives until cleared.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Set(ctx, key, value, 0).Err()
}

// Del removes the provided keys.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Del(ctx, keys...).Err()
}

// Ping verifies the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("redis store not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
