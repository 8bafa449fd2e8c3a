package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

// DefaultRedisConfig returns the pool settings used for url.
func DefaultRedisConfig(url string) RedisConfig {
	return RedisConfig{
		URL:          url,
		PoolSize:     10,
		DialTimeout:  30 * time.Second,
		MinIdleConns: 5,
		ReadTimeout:  10 * time.Second,
		MaxRetries:   3,
	}
}

// NewRedisClient creates a Redis client with the provided configuration
func NewRedisClient(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = config.PoolSize
	opt.MinIdleConns = config.MinIdleConns
	opt.DialTimeout = config.DialTimeout
	opt.ReadTimeout = config.ReadTimeout
	opt.MaxRetries = config.MaxRetries

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis server: %w", err)
	}

	log.Info().
		Int("pool_size", config.PoolSize).
		Int("min_idle_conns", config.MinIdleConns).
		Dur("dial_timeout", config.DialTimeout).
		Dur("read_timeout", config.ReadTimeout).
		Int("max_retries", config.MaxRetries).
		Msg("redis client initialized")
	return client, nil
}
