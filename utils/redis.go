package utils

import (
	"context"
	"fmt"
	"time"

	"koya/logger"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to redis. An empty address means the limiter runs without it.
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		logger.Logger.Warn().Msg("REDIS_URL not set, rate limiting disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	logger.Logger.Info().Str("addr", addr).Msg("redis connected")
	return rdb, nil
}

// CloseRedis closes the client if one was created.
func CloseRedis(rdb *redis.Client) error {
	if rdb != nil {
		return rdb.Close()
	}
	return nil
}
