package store

import (
	"context"
	"encoding/json"
	"fmt"

	"donation-core/internal/model"
)

// CreateOutboxMessage 在事务中写入一条待投递事件 (payload 做 JSON 序列化)
func CreateOutboxMessage(ctx context.Context, tx Store, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	return tx.CreateOutboxMessage(ctx, &model.OutboxMessage{
		Topic:   topic,
		Key:     key,
		Payload: data,
		Status:  model.OutboxPending,
	})
}
