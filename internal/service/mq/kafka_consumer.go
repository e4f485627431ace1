package mq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"donation-core/pkg/logger"
)

// KafkaConsumer 实现 Consumer 接口; 每个主题一个 Reader
type KafkaConsumer struct {
	brokers []string
	groupID string

	mu      sync.Mutex
	readers []*kafka.Reader
}

// NewKafkaConsumer 创建 Kafka 消费者
func NewKafkaConsumer(brokers []string, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
	}
}

// Subscribe 订阅 Kafka 主题 (阻塞)
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, handler Handler) error {
	// GroupID: 同组内同一分区只会被一个消费者消费
	// StartOffset: 新组从最早的消息开始，避免漏掉通知
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	c.mu.Lock()
	c.readers = append(c.readers, reader)
	c.mu.Unlock()

	logger.Info("[Kafka MQ] 开始监听主题", zap.String("topic", topic), zap.String("group", c.groupID))

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Warn("[Kafka MQ] 读取消息错误", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		msg := &Message{
			ID:      string(m.Key),
			Topic:   topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		if err := handler(msg); err != nil {
			// Kafka 没有单条 Nack; 不提交 offset, 下次重平衡后重新投递
			logger.Warn("[Kafka MQ] 业务处理失败", zap.String("topic", topic), zap.Error(err))
			continue
		}

		if err := reader.CommitMessages(ctx, m); err != nil {
			logger.Warn("[Kafka MQ] 提交 Offset 失败", zap.Error(err))
		}
	}
}

// Close 关闭所有 Reader
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for _, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.readers = nil
	return firstErr
}
