package mq

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBroker 进程内的 Producer + Consumer, 用于单机模式和测试
// 每个订阅者有独立的缓冲队列，发布时扇出
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string][]chan *Message
	buffer int
	seq    uint64
	closed bool
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 256
	}
	return &MemoryBroker{subs: make(map[string][]chan *Message), buffer: buffer}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory broker closed")
	}
	b.seq++
	id := fmt.Sprintf("%d", b.seq)
	subs := append([]chan *Message(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, ch := range subs {
		msg := &Message{ID: id, Topic: topic, Key: key, Payload: append([]byte(nil), payload...)}
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe 阻塞直到 ctx 取消; 处理失败的消息直接丢弃 (内存模式无重投)
func (b *MemoryBroker) Subscribe(ctx context.Context, topic string, handler Handler) error {
	ch := make(chan *Message, b.buffer)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	defer b.unsubscribe(topic, ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			_ = handler(msg)
		}
	}
}

func (b *MemoryBroker) unsubscribe(topic string, ch chan *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[topic]
	for i, c := range list {
		if c == ch {
			b.subs[topic] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// Subscribers 某个主题当前的订阅者数量 (测试里用来等待订阅就绪)
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
