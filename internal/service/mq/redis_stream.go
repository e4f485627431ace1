package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"donation-core/pkg/logger"
)

// RedisProducer 实现 Producer 接口
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer 创建 Redis 生产者
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{
		client: client,
	}
}

// Publish 发送消息到 Redis Stream (Stream Name = topic)
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		logger.Error("[Redis MQ] publish failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

// Close 连接由调用方统一关闭
func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer 实现 Consumer 接口
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
}

// NewRedisConsumer 创建 Redis 消费者
func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
	}
}

// Subscribe 订阅 Redis Stream (阻塞)
func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler Handler) error {
	// XGROUP CREATE <stream> <group> $ MKSTREAM
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("创建消费者组失败: %w", err)
	}

	logger.Info("[Redis MQ] 开始监听主题", zap.String("topic", topic), zap.String("group", c.group))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// XREADGROUP GROUP <group> <consumer> BLOCK 2000 COUNT 10 STREAMS <topic> >
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{topic, ">"},
			Count:    10,
			Block:    2 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue // 超时无消息
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("[Redis MQ] 读取消息错误", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, x := range stream.Messages {
				val, ok := x.Values["payload"].(string)
				if !ok {
					logger.Warn("[Redis MQ] 消息格式错误: payload 缺失", zap.String("id", x.ID))
					c.ack(ctx, topic, x.ID)
					continue
				}
				key, _ := x.Values["key"].(string)

				msg := &Message{
					ID:      x.ID,
					Topic:   topic,
					Key:     key,
					Payload: []byte(val),
				}
				if err := handler(msg); err != nil {
					// 不 ACK, 留在 PEL 里等待人工处理
					logger.Warn("[Redis MQ] 消息处理失败", zap.String("id", x.ID), zap.Error(err))
					continue
				}
				c.ack(ctx, topic, x.ID)
			}
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	c.client.XAck(ctx, topic, c.group, id)
}

// Close 连接由调用方统一关闭
func (c *RedisConsumer) Close() error {
	return nil
}
