package custody

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"donation-core/internal/event"
	"donation-core/internal/service/mq"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

// NotificationConsumer 从 MQ 消费入账通知 (链上监听器投递) 并交给 Gateway
type NotificationConsumer struct {
	gateway  *Gateway
	consumer mq.Consumer
}

func NewNotificationConsumer(g *Gateway, c mq.Consumer) *NotificationConsumer {
	return &NotificationConsumer{gateway: g, consumer: c}
}

// Start 阻塞直到 ctx 取消
func (c *NotificationConsumer) Start(ctx context.Context) error {
	logger.Info("开始监听入账通知", zap.String("topic", event.TopicTransferNotifications))
	return c.consumer.Subscribe(ctx, event.TopicTransferNotifications, func(msg *mq.Message) error {
		return c.Handle(ctx, msg)
	})
}

// Handle 业务拒绝 (格式错误/未登记/重复) 视为已消费，不再重投; 只有基础设施错误返回 error
func (c *NotificationConsumer) Handle(ctx context.Context, msg *mq.Message) error {
	var n event.TransferNotificationMessage
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		logger.Warn("解析入账通知失败", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}

	receipt, err := c.gateway.ReceiveTransferNotification(ctx, n.TokenID, n.SenderID, n.Amount, n.Msg)
	if err != nil {
		if errno.IsInvalidInput(err) || errno.IsNotFound(err) || errno.IsUnauthorized(err) {
			return nil
		}
		return err
	}
	logger.Debug("入账通知已受理", zap.String("id", msg.ID), zap.String("correlation_id", receipt.CorrelationID))
	return nil
}
