package custody

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

var ErrQueueFull = errors.New("custody: dispatch queue full")

// LocalDispatcher 进程内派发: 入队后由 Run 的 goroutine (或测试里的 Drain)
// 执行 Transferer, 再以系统身份回调 Resolve。回调永远发生在 Dispatch 返回之后。
type LocalDispatcher struct {
	transferer Transferer
	resolver   Resolver
	caller     string
	queue      chan PendingOperation
}

func NewLocalDispatcher(t Transferer, r Resolver, systemAccount string, buffer int) *LocalDispatcher {
	if t == nil {
		t = SimulatedTransferer{}
	}
	if buffer <= 0 {
		buffer = 1024
	}
	return &LocalDispatcher{
		transferer: t,
		resolver:   r,
		caller:     systemAccount,
		queue:      make(chan PendingOperation, buffer),
	}
}

func (d *LocalDispatcher) Dispatch(ctx context.Context, op PendingOperation) error {
	select {
	case d.queue <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run 阻塞直到 ctx 取消
func (d *LocalDispatcher) Run(ctx context.Context) {
	logger.Info("[Custody] local dispatcher started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("[Custody] local dispatcher stopped")
			return
		case op := <-d.queue:
			d.deliver(ctx, op)
		}
	}
}

// Drain 同步处理当前队列里的所有操作，返回处理条数
func (d *LocalDispatcher) Drain(ctx context.Context) int {
	n := 0
	for {
		select {
		case op := <-d.queue:
			d.deliver(ctx, op)
			n++
		default:
			return n
		}
	}
}

func (d *LocalDispatcher) deliver(ctx context.Context, op PendingOperation) {
	if _, err := Deliver(ctx, d.transferer, d.resolver, d.caller, op); err != nil {
		logger.Warn("[Custody] resolve failed",
			zap.String("correlation_id", op.CorrelationID), zap.Error(err))
	}
}

// Deliver 执行外部调用并回调结果，本地派发和 asynq worker 共用。
// 登记已不在 (过期或早已解决) 时不再执行外部调用: 入金的资金随通知已经到账，按 Confirmed 收尾;
// 出金从未执行，按 Failed 收尾。返回 ErrOperationNotFound 表示重复投递。
func Deliver(ctx context.Context, t Transferer, r Resolver, caller string, op PendingOperation) (*Resolution, error) {
	if _, err := r.Lookup(ctx, op.CorrelationID); err != nil {
		if !errno.IsNotFound(err) {
			return nil, err
		}
		outcome := OutcomeFailed
		if op.Kind == KindDeposit {
			outcome = OutcomeConfirmed
		}
		return r.ResolveExpired(ctx, caller, op, outcome)
	}

	outcome := t.Execute(ctx, op)
	res, err := r.Resolve(ctx, caller, op.CorrelationID, outcome)
	if errno.IsNotFound(err) {
		// 执行期间过期
		return r.ResolveExpired(ctx, caller, op, outcome)
	}
	return res, err
}
