package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"donation-core/pkg/config"
	"donation-core/pkg/logger"
)

const redisPingTimeout = 5 * time.Second

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// ConnectRedis 建连后立即 PING, 失败时关闭客户端
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	logger.Named("database").Info("redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
