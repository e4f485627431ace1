package donation

import (
	"context"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/service/attribution"
	"donation-core/internal/service/ledger"
	"donation-core/internal/store"
)

// Recorder 把 "追加账本 + 归因 + 入账事件" 组合成一个原子步骤。
// 显式创建接口和托管确认回调共用它。
type Recorder struct {
	ledger      *ledger.Service
	attribution *attribution.Engine
}

func NewRecorder(l *ledger.Service, a *attribution.Engine) *Recorder {
	return &Recorder{ledger: l, attribution: a}
}

// Record 只能在 tx 内调用; 任一步失败由外层事务整体回滚
func (r *Recorder) Record(ctx context.Context, tx store.Store, d *model.Donation, source, correlationID string) (attribution.Outcome, error) {
	if err := r.ledger.WithTx(tx).Append(ctx, d); err != nil {
		return attribution.Outcome{}, err
	}
	out, err := r.attribution.Apply(ctx, tx, d)
	if err != nil {
		return attribution.Outcome{}, err
	}
	err = store.CreateOutboxMessage(ctx, tx, event.TopicDonationRecorded, d.ID, event.DonationRecordedEvent{
		ID:            d.ID,
		Donor:         d.Donor,
		Asset:         d.Asset,
		Amount:        d.Amount.String(),
		AmountRef:     d.AmountRef,
		TargetKind:    string(d.TargetKind),
		EventID:       d.EventID,
		CampaignID:    d.CampaignID,
		Source:        source,
		CorrelationID: correlationID,
		CreatedAt:     d.CreatedAt,
	})
	if err != nil {
		return attribution.Outcome{}, err
	}
	return out, nil
}
