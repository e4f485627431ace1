package custody

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/service/donation"
	"donation-core/internal/store"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
	"donation-core/pkg/monitor"
)

// Dispatcher 把挂起操作交给另一个执行上下文，结果稍后通过 Resolve 回来
type Dispatcher interface {
	Dispatch(ctx context.Context, op PendingOperation) error
}

// Resolver 确认回调入口
type Resolver interface {
	Resolve(ctx context.Context, caller, correlationID string, outcome Outcome) (*Resolution, error)
	// ResolveExpired 登记处已没有这条记录时，用调用方持有的快照收尾
	ResolveExpired(ctx context.Context, caller string, op PendingOperation, outcome Outcome) (*Resolution, error)
	// Lookup 查询在途操作; 不在途返回 ErrOperationNotFound
	Lookup(ctx context.Context, correlationID string) (*PendingOperation, error)
}

// Resolution 一次回调的处理结果
type Resolution struct {
	CorrelationID string        `json:"correlation_id"`
	Kind          OperationKind `json:"kind"`
	State         State         `json:"state"`
	// Applied Confirmed 路径的状态变更是否已提交
	Applied bool `json:"applied"`
	// Alert 状态变更失败时写入的补偿事件主题
	Alert  string `json:"alert,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Reconciler 驱动 Issued -> Confirmed/Failed, 是唯一会修改托管相关持久状态的地方
type Reconciler struct {
	store      store.Store
	registry   PendingRegistry
	recorder   *donation.Recorder
	dispatcher Dispatcher
	system     string
	now        func() time.Time
	log        *zap.Logger
}

func NewReconciler(s store.Store, registry PendingRegistry, recorder *donation.Recorder, systemAccount string) *Reconciler {
	return &Reconciler{
		store:    s,
		registry: registry,
		recorder: recorder,
		system:   systemAccount,
		now:      time.Now,
		log:      logger.Named("reconciler"),
	}
}

// UseDispatcher 两者互相引用，构造后再注入
func (r *Reconciler) UseDispatcher(d Dispatcher) {
	r.dispatcher = d
}

func (r *Reconciler) SystemAccount() string {
	return r.system
}

// Issue 登记并派发; 派发失败时撤销登记，相当于操作从未开始
func (r *Reconciler) Issue(ctx context.Context, op *PendingOperation) error {
	if r.dispatcher == nil {
		return fmt.Errorf("reconciler has no dispatcher")
	}
	op.State = StateIssued
	op.IssuedAt = r.now().UTC()
	if err := r.registry.Put(ctx, op); err != nil {
		return err
	}
	if err := r.dispatcher.Dispatch(ctx, *op); err != nil {
		_ = r.registry.Discard(ctx, op.CorrelationID)
		return fmt.Errorf("dispatch %s: %w", op.CorrelationID, err)
	}
	r.log.Info("operation issued",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("kind", string(op.Kind)),
		zap.String("asset", op.Asset),
		zap.String("amount", op.Amount.String()),
	)
	return nil
}

// Pending 只读查看在途操作
func (r *Reconciler) Pending(ctx context.Context) ([]PendingOperation, error) {
	return r.registry.List(ctx)
}

func (r *Reconciler) Lookup(ctx context.Context, correlationID string) (*PendingOperation, error) {
	return r.registry.Get(ctx, correlationID)
}

func alertTopic(kind OperationKind) string {
	if kind == KindDeposit {
		return event.TopicRefundRequired
	}
	return event.TopicReconciliationRequired
}

// Resolve 确认回调。调用方必须是系统自身; 否则拒绝且不触碰挂起操作。
func (r *Reconciler) Resolve(ctx context.Context, caller, correlationID string, outcome Outcome) (*Resolution, error) {
	if caller != r.system {
		r.log.Warn("rejected confirmation from foreign caller",
			zap.String("caller", caller), zap.String("correlation_id", correlationID))
		return nil, errno.ErrCallerNotSystem
	}
	if !outcome.Valid() {
		return nil, errno.ErrInvalidInput.WithMessage("unknown outcome " + string(outcome))
	}

	op, err := r.registry.Claim(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	op.State = outcome.State()
	res := &Resolution{CorrelationID: op.CorrelationID, Kind: op.Kind, State: op.State}

	if op.State == StateFailed {
		// 终态，不做任何状态变更，也不自动重试
		monitor.RecordResolution(string(op.Kind), string(op.State))
		r.log.Info("operation failed",
			zap.String("correlation_id", op.CorrelationID), zap.String("kind", string(op.Kind)))
		return res, nil
	}

	var applyErr error
	switch op.Kind {
	case KindDeposit:
		applyErr = r.confirmDeposit(ctx, op)
	case KindWithdrawal:
		applyErr = r.confirmWithdrawal(ctx, op)
	default:
		applyErr = fmt.Errorf("unknown operation kind %q", op.Kind)
	}

	monitor.RecordResolution(string(op.Kind), string(op.State))
	if applyErr == nil {
		res.Applied = true
		return res, nil
	}

	// 资金已经在外部完成转移，但本地记账失败: 写补偿事件，绝不静默丢弃
	res.Reason = applyErr.Error()
	res.Alert = alertTopic(op.Kind)
	r.log.Error("confirmed operation could not be applied",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("kind", string(op.Kind)),
		zap.String("alert", res.Alert),
		zap.Error(applyErr),
	)
	if err := r.writeAlert(ctx, op, res.Alert, res.Reason); err != nil {
		return res, fmt.Errorf("write %s alert: %w", res.Alert, err)
	}
	return res, nil
}

// ResolveExpired 处理挂起记录过期 (Redis TTL) 之后才到达的结果。
// 已有终态 (标记或出金记录) 视为重复投递，返回 ErrOperationNotFound。
// 否则 Failed 不做变更; Confirmed 说明资金已经移动但账本无从记账，写补偿事件。
func (r *Reconciler) ResolveExpired(ctx context.Context, caller string, op PendingOperation, outcome Outcome) (*Resolution, error) {
	if caller != r.system {
		return nil, errno.ErrCallerNotSystem
	}
	if !outcome.Valid() {
		return nil, errno.ErrInvalidInput.WithMessage("unknown outcome " + string(outcome))
	}
	if _, err := r.registry.Get(ctx, op.CorrelationID); err == nil {
		return r.Resolve(ctx, caller, op.CorrelationID, outcome)
	} else if !errno.IsNotFound(err) {
		return nil, err
	}

	if op.Kind == KindWithdrawal {
		done, err := r.store.HasWithdrawal(ctx, op.CorrelationID)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, errno.ErrOperationNotFound
		}
	}
	first, err := r.registry.MarkResolved(ctx, op.CorrelationID)
	if err != nil {
		return nil, err
	}
	if !first {
		return nil, errno.ErrOperationNotFound
	}

	op.State = outcome.State()
	res := &Resolution{CorrelationID: op.CorrelationID, Kind: op.Kind, State: op.State}
	monitor.RecordResolution(string(op.Kind), string(op.State))
	if op.State == StateFailed {
		r.log.Warn("expired operation failed",
			zap.String("correlation_id", op.CorrelationID), zap.String("kind", string(op.Kind)))
		return res, nil
	}

	res.Alert = alertTopic(op.Kind)
	res.Reason = "pending operation expired before confirmation"
	r.log.Error("confirmed operation arrived after expiry",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("kind", string(op.Kind)),
		zap.String("alert", res.Alert),
		zap.Time("issued_at", op.IssuedAt),
	)
	if err := r.writeAlert(ctx, &op, res.Alert, res.Reason); err != nil {
		return res, fmt.Errorf("write %s alert: %w", res.Alert, err)
	}
	return res, nil
}

func (r *Reconciler) confirmDeposit(ctx context.Context, op *PendingOperation) error {
	if op.Intent == nil {
		return fmt.Errorf("deposit %s has no donation intent", op.CorrelationID)
	}
	d := op.Intent.Donation(op.From, op.Asset, op.Amount)
	d.CreatedAt = r.now().UTC()

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := r.recorder.Record(ctx, tx, d, event.SourceTransfer, op.CorrelationID); err != nil {
			return err
		}
		return tx.CreditBalance(ctx, op.Asset, op.Amount)
	})
	if err != nil {
		return err
	}
	monitor.RecordDonation(string(d.TargetKind), event.SourceTransfer, d.AmountRef)
	r.log.Info("deposit confirmed",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("donation_id", d.ID),
		zap.String("donor", d.Donor),
	)
	return nil
}

func (r *Reconciler) confirmWithdrawal(ctx context.Context, op *PendingOperation) error {
	err := r.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DebitBalance(ctx, op.Asset, op.Amount); err != nil {
			if errors.Is(err, store.ErrInsufficientBalance) {
				return errno.ErrInsufficientFunds
			}
			return err
		}
		if err := tx.CreateWithdrawal(ctx, &model.Withdrawal{
			CorrelationID: op.CorrelationID,
			FromAccount:   op.From,
			ToAccount:     op.To,
			Asset:         op.Asset,
			Amount:        op.Amount,
			Status:        model.WithdrawalCompleted,
			CreatedAt:     r.now().UTC(),
		}); err != nil {
			return err
		}
		return store.CreateOutboxMessage(ctx, tx, event.TopicWithdrawalConfirmed, op.CorrelationID, event.WithdrawalConfirmedEvent{
			CorrelationID: op.CorrelationID,
			From:          op.From,
			To:            op.To,
			Asset:         op.Asset,
			Amount:        op.Amount.String(),
		})
	})
	if err != nil {
		return err
	}
	r.log.Info("withdrawal confirmed",
		zap.String("correlation_id", op.CorrelationID), zap.String("to", op.To))
	return nil
}

func (r *Reconciler) writeAlert(ctx context.Context, op *PendingOperation, topic, reason string) error {
	alert := event.CustodyAlertEvent{
		CorrelationID: op.CorrelationID,
		Kind:          string(op.Kind),
		From:          op.From,
		To:            op.To,
		Asset:         op.Asset,
		Amount:        op.Amount.String(),
		Reason:        reason,
	}
	if op.Intent != nil {
		alert.DonationID = op.Intent.DonationID
	}
	return r.store.Transaction(ctx, func(tx store.Store) error {
		return store.CreateOutboxMessage(ctx, tx, topic, op.CorrelationID, alert)
	})
}

// SweepStale 只报告超时未解决的操作; 不取消也不重试
func (r *Reconciler) SweepStale(ctx context.Context, olderThan time.Duration) ([]PendingOperation, error) {
	ops, err := r.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	monitor.SetPending(len(ops))

	cutoff := r.now().Add(-olderThan)
	var stale []PendingOperation
	for _, op := range ops {
		if op.IssuedAt.Before(cutoff) {
			stale = append(stale, op)
			r.log.Warn("operation pending for too long",
				zap.String("correlation_id", op.CorrelationID),
				zap.String("kind", string(op.Kind)),
				zap.Time("issued_at", op.IssuedAt),
			)
		}
	}
	return stale, nil
}
