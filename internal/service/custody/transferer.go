package custody

import (
	"context"

	"go.uber.org/zap"

	"donation-core/pkg/logger"
)

// Transferer 执行真正的资产转移 (链上 ft_transfer 等)，只返回结果
type Transferer interface {
	Execute(ctx context.Context, op PendingOperation) Outcome
}

// TransfererFunc 适配普通函数
type TransfererFunc func(ctx context.Context, op PendingOperation) Outcome

func (f TransfererFunc) Execute(ctx context.Context, op PendingOperation) Outcome {
	return f(ctx, op)
}

// SimulatedTransferer 默认实现: 入账已经到达, 出金模拟成功
type SimulatedTransferer struct{}

func (SimulatedTransferer) Execute(ctx context.Context, op PendingOperation) Outcome {
	logger.Debug("simulated transfer",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("kind", string(op.Kind)),
		zap.String("asset", op.Asset),
		zap.String("amount", op.Amount.String()),
	)
	return OutcomeConfirmed
}
