package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"donation-core/internal/service/custody"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

// 任务类型常量
const (
	TypeCustodyConfirm = "custody:confirm"
)

// CustodyConfirmPayload 挂起操作的完整快照；回调在另一个进程执行
type CustodyConfirmPayload struct {
	Operation custody.PendingOperation `json:"operation"`
}

// ---------------------------------------------------------------------
// 1. Producer (Client) Code
// ---------------------------------------------------------------------

// NewCustodyConfirmTask 创建确认任务
// 不自动重试: 同一操作的结果最多被观察一次，失败交给补偿事件处理
func NewCustodyConfirmTask(op custody.PendingOperation) (*asynq.Task, error) {
	payload, err := json.Marshal(CustodyConfirmPayload{Operation: op})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCustodyConfirm, payload,
		asynq.MaxRetry(0),
		asynq.Queue("critical"),
		asynq.Timeout(2*time.Minute),
		asynq.TaskID(op.CorrelationID),
	), nil
}

// ---------------------------------------------------------------------
// 2. Consumer (Server) Code
// ---------------------------------------------------------------------

// CustodyConfirmHandler 执行外部转账，然后以系统身份回调 Resolve
type CustodyConfirmHandler struct {
	transferer custody.Transferer
	resolver   custody.Resolver
	caller     string
}

func NewCustodyConfirmHandler(t custody.Transferer, r custody.Resolver, systemAccount string) *CustodyConfirmHandler {
	if t == nil {
		t = custody.SimulatedTransferer{}
	}
	return &CustodyConfirmHandler{transferer: t, resolver: r, caller: systemAccount}
}

func (h *CustodyConfirmHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p CustodyConfirmPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// JSON 解析失败，重试也没用，直接跳过 (SkipRetry)
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	op := p.Operation
	if op.CorrelationID == "" {
		return fmt.Errorf("empty correlation id: %w", asynq.SkipRetry)
	}

	res, err := custody.Deliver(ctx, h.transferer, h.resolver, h.caller, op)
	if err != nil {
		if errno.IsNotFound(err) {
			// 已被解决过，属于重复投递
			logger.Warn("custody confirm: operation already resolved", zap.String("correlation_id", op.CorrelationID))
			return nil
		}
		return fmt.Errorf("resolve %s: %v: %w", op.CorrelationID, err, asynq.SkipRetry)
	}

	logger.Info("custody confirm processed",
		zap.String("correlation_id", res.CorrelationID),
		zap.String("state", string(res.State)),
		zap.Bool("applied", res.Applied),
		zap.String("alert", res.Alert),
	)
	return nil
}
