// Package redis connects the shared go-redis client used by the dispatch
// queue. Redis is optional; an empty URL means the in-memory queue is used
// instead.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"casewatch/internal/platform/config"
)

// New dials Redis from the provided configuration and verifies the
// connection with a ping. Returns (nil, nil) when no URL is configured.
func New(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
