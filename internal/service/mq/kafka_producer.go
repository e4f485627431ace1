package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"donation-core/pkg/logger"
)

// KafkaProducer 实现 Producer 接口
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer 创建 Kafka 生产者
// brokers: Kafka 节点地址列表 (e.g. ["localhost:9092"])
// Writer 不绑定 Topic, 每条消息自带 Topic (outbox 里有多种事件)
func NewKafkaProducer(brokers []string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},    // 按 Key 哈希，保证同一捐款/活动的消息有序
		AllowAutoTopicCreation: true,             // 开发环境允许自动创建 Topic
		RequiredAcks:           kafka.RequireAll, // 等待所有 ISR 副本确认
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
	}

	return &KafkaProducer{
		writer: writer,
	}
}

// Publish 发送消息到 Kafka
func (p *KafkaProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error("[Kafka MQ] publish failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("kafka write error: %w", err)
	}
	return nil
}

// Close 关闭连接
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
