package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID       string            // 消息ID (例如 Redis Stream ID)
	Topic    string            // 主题 (例如 "donation_recorded")
	Key      string            // 分区键 (例如 donation id / campaign id)
	Payload  []byte            // 消息体 (JSON)
	Metadata map[string]string // 元数据
}

// Handler 消息处理函数，返回 error 表示未成功消费 (不 ACK / 不提交 offset)
type Handler func(msg *Message) error

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key: 用于分区排序 (Partition Key). 传空字符串则随机分区.
	Publish(ctx context.Context, topic string, key string, payload []byte) error

	Close() error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 订阅主题，阻塞直到 ctx 取消
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close 关闭消费者
	Close() error
}
