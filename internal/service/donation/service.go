// Package donation 是不经过代币托管的显式捐款入口
package donation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/amount"
	"donation-core/pkg/asset"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
	"donation-core/pkg/monitor"
)

type Service struct {
	store    store.Store
	recorder *Recorder
	now      func() time.Time
}

func NewService(s store.Store, r *Recorder) *Service {
	return &Service{store: s, recorder: r, now: time.Now}
}

// CreateInput 显式字段; EventID / CampaignID 可以是 "null"
type CreateInput struct {
	ID         string
	Donor      string
	Asset      string
	Amount     string
	AmountRef  float64
	TargetKind string
	EventID    string
	CampaignID string
}

func (in CreateInput) toDonation(now time.Time) (*model.Donation, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" || id == model.NullSentinel {
		return nil, errno.ErrInvalidInput.WithMessage("donation id is required")
	}
	donor := strings.TrimSpace(in.Donor)
	if donor == "" {
		return nil, errno.ErrInvalidInput.WithMessage("donor is required")
	}
	assetID, err := asset.Normalize(in.Asset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	amt, err := amount.ParseU128(in.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err)
	}
	if amt.IsZero() {
		return nil, errno.ErrInvalidAmount.WithMessage("amount must be greater than zero")
	}
	if in.AmountRef < 0 {
		return nil, errno.ErrInvalidAmount.WithMessage("reference amount must not be negative")
	}
	kind, err := model.ParseTargetKind(in.TargetKind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}

	d := &model.Donation{
		ID:         id,
		Donor:      donor,
		Asset:      assetID,
		Amount:     amt,
		AmountRef:  in.AmountRef,
		TargetKind: kind,
		EventID:    model.NullableID(in.EventID),
		CampaignID: model.NullableID(in.CampaignID),
		CreatedAt:  now,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	return d, nil
}

// Create 在一个事务内完成 追加 + 归因 + 事件
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Donation, error) {
	d, err := in.toDonation(s.now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		_, err := s.recorder.Record(ctx, tx, d, event.SourceDirect, "")
		return err
	})
	if err != nil {
		logger.Warn("create donation rejected", zap.String("id", d.ID), zap.Error(err))
		return nil, err
	}

	monitor.RecordDonation(string(d.TargetKind), event.SourceDirect, d.AmountRef)
	logger.Info("donation recorded",
		zap.String("id", d.ID),
		zap.String("donor", d.Donor),
		zap.String("target", string(d.TargetKind)),
		zap.String("amount", d.Amount.String()),
	)
	return d, nil
}
