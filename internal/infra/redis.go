package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lawpadi/lawpadi/internal/config"
)

// NewRedisClient opens the Redis connection used for idempotency replay and
// login rate limiting. Dial and read deadlines come from the configured
// connect timeout, and connectivity is verified up front.
func NewRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.DialTimeout = cfg.ConnectTimeout
	opt.ReadTimeout = cfg.ConnectTimeout

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
