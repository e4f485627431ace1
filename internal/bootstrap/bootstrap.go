// Package bootstrap 按配置创建进程级基础设施 (存储、Redis、缓存、锁、MQ)
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"donation-core/internal/service/custody"
	"donation-core/internal/service/mq"
	"donation-core/internal/store"
	"donation-core/internal/store/gormstore"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/cache"
	"donation-core/pkg/config"
	"donation-core/pkg/database"
	"donation-core/pkg/logger"
	"donation-core/pkg/utils/lock"
)

type Infra struct {
	Store    store.Store
	Redis    *redis.Client // memory 模式下为 nil
	Cache    cache.Cache
	Lock     lock.DistributedLock
	Registry custody.PendingRegistry

	closers []func() error
}

// NeedsRedis 只有全内存部署才不需要 Redis
func NeedsRedis(cfg *config.Config) bool {
	return cfg.App.Store != "memory" ||
		cfg.Redis.MQType != "memory" ||
		cfg.Custody.PendingStore == "redis" ||
		cfg.Custody.Dispatcher == "asynq"
}

func Open(cfg *config.Config) (*Infra, error) {
	inf := &Infra{}

	// 1. 存储
	if cfg.App.Store == "memory" {
		logger.Warn("使用内存存储，进程退出后数据丢失")
		inf.Store = memstore.New()
	} else {
		db, err := database.ConnectPostgres(cfg.DB)
		if err != nil {
			return nil, err
		}
		gs := gormstore.New(db)
		if cfg.App.Env != "production" {
			if err := gs.AutoMigrate(); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		inf.Store = gs
		inf.closers = append(inf.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}

	// 2. Redis
	if NeedsRedis(cfg) {
		rdb, err := database.ConnectRedis(context.Background(), cfg.Redis)
		if err != nil {
			inf.Close()
			return nil, err
		}
		inf.Redis = rdb
		inf.closers = append(inf.closers, rdb.Close)
	}

	// 3. 缓存 (L1: Memory, L2: Redis) 与锁
	local := cache.NewMemoryCache(time.Minute, 5*time.Minute)
	if inf.Redis != nil {
		inf.Cache = cache.NewMultiLevelCache(local, cache.NewRedisCache(inf.Redis))
		inf.Lock = lock.NewRedisLock(inf.Redis)
	} else {
		inf.Cache = local
		inf.Lock = lock.NewLocalLock()
	}

	// 4. 挂起操作登记处
	if cfg.Custody.PendingStore == "redis" {
		inf.Registry = custody.NewRedisRegistry(inf.Redis, cfg.Custody.PendingTTL)
	} else {
		if cfg.Custody.Dispatcher == "asynq" {
			logger.Warn("asynq dispatcher with in-memory pending store: worker processes cannot see pending operations")
		}
		inf.Registry = custody.NewMemoryRegistry()
	}
	return inf, nil
}

// Producer 按 mq_type 创建生产者; memory 模式下同一个 broker 兼做消费者
func (inf *Infra) Producer(cfg *config.Config, memory *mq.MemoryBroker) mq.Producer {
	switch cfg.Redis.MQType {
	case "kafka":
		logger.Info("使用 Kafka 作为消息队列...")
		return mq.NewKafkaProducer(cfg.Kafka.Brokers)
	case "memory":
		return memory
	default:
		logger.Info("使用 Redis Streams 作为消息队列...")
		return mq.NewRedisProducer(inf.Redis)
	}
}

// Consumer 每个消费组一个实例
func (inf *Infra) Consumer(cfg *config.Config, memory *mq.MemoryBroker, group string) mq.Consumer {
	switch cfg.Redis.MQType {
	case "kafka":
		return mq.NewKafkaConsumer(cfg.Kafka.Brokers, group)
	case "memory":
		return memory
	default:
		name, _ := os.Hostname()
		if name == "" {
			name = "donation-0"
		}
		return mq.NewRedisConsumer(inf.Redis, group, name)
	}
}

func (inf *Infra) Close() {
	for i := len(inf.closers) - 1; i >= 0; i-- {
		if err := inf.closers[i](); err != nil {
			logger.Warn("close resource failed", zap.Error(err))
		}
	}
}
