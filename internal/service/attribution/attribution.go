// Package attribution 把已入账的捐款路由到目标的投票人集合 (general 捐款不做处理)
package attribution

import (
	"context"
	"errors"
	"fmt"

	"donation-core/internal/model"
	"donation-core/internal/service/voting"
	"donation-core/internal/store"
	"donation-core/pkg/errno"
)

type Engine struct {
	voting *voting.Service
}

func NewEngine(v *voting.Service) *Engine {
	return &Engine{voting: v}
}

// Outcome Apply 的结果; general 捐款 Target 为 nil
type Outcome struct {
	Target        *model.Target
	CreditGranted bool
}

// Apply 必须和账本追加运行在同一个事务 tx 中:
// 目标不存在返回 NotFound, 调用方回滚整条捐款。
func (e *Engine) Apply(ctx context.Context, tx store.Store, d *model.Donation) (Outcome, error) {
	target, ok := d.Target()
	if !ok {
		return Outcome{}, nil
	}

	// 先更新累计金额，同时也检查了目标是否存在
	if err := tx.AddTargetTotals(ctx, target, d.Amount, d.AmountRef); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if target.Kind == model.TargetEvent {
				return Outcome{}, fmt.Errorf("%w: %s", errno.ErrEventNotFound, target.ID)
			}
			return Outcome{}, fmt.Errorf("%w: %s", errno.ErrCampaignNotFound, target.ID)
		}
		return Outcome{}, fmt.Errorf("update totals: %w", err)
	}

	granted, err := e.voting.WithTx(tx).AddVoter(ctx, target, d.Donor)
	if err != nil {
		return Outcome{}, fmt.Errorf("grant voter credit: %w", err)
	}
	return Outcome{Target: &target, CreditGranted: granted}, nil
}
