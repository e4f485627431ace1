package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"donation-core/internal/store"
	"donation-core/internal/service/mq"
	"donation-core/pkg/logger"
	"donation-core/pkg/monitor"
	"donation-core/pkg/utils/lock"
)

const relayLockKey = "outbox:relay"

// RelayService 负责将本地消息表的消息搬运到 MQ
type RelayService struct {
	store     store.Store
	producer  mq.Producer
	locker    lock.DistributedLock
	interval  time.Duration
	batchSize int
}

func NewRelayService(s store.Store, producer mq.Producer, locker lock.DistributedLock) *RelayService {
	return &RelayService{
		store:     s,
		producer:  producer,
		locker:    locker,
		interval:  500 * time.Millisecond, // 500ms 轮询一次
		batchSize: 50,
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("[Relay] 启动消息中继服务")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Relay] 停止服务")
			return
		case <-ticker.C:
			s.RelayOnce(ctx)
		}
	}
}

// RelayOnce 处理一批 PENDING 消息，返回成功投递的条数
// 多实例部署时用锁保证同一时刻只有一个 relay 在搬运，避免重复投递放大
func (s *RelayService) RelayOnce(ctx context.Context) int {
	if s.locker != nil {
		ok, err := s.locker.Acquire(ctx, relayLockKey, 10*time.Second)
		if err != nil || !ok {
			return 0
		}
		defer s.locker.Release(ctx, relayLockKey)
	}

	messages, err := s.store.PendingOutbox(ctx, s.batchSize)
	if err != nil {
		logger.Error("[Relay] 查询消息失败", zap.Error(err))
		return 0
	}
	if len(messages) == 0 {
		return 0
	}
	logger.Debug("[Relay] 发现待发送消息", zap.Int("count", len(messages)))

	sent := 0
	for _, msg := range messages {
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			logger.Warn("[Relay] 发送失败", zap.Uint64("id", msg.ID), zap.String("topic", msg.Topic), zap.Error(err))
			continue
		}

		// 只有发送成功了才更新状态 => At-least-once
		// 如果这里更新失败，下次还会发，Consumer 需做好幂等
		if err := s.store.MarkOutboxSent(ctx, msg.ID); err != nil {
			logger.Error("[Relay] 更新状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		monitor.RecordRelayed(msg.Topic)
		sent++
	}
	return sent
}
