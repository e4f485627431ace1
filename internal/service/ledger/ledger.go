// Package ledger 只追加的捐款账本，是 "谁向哪里捐了什么" 的唯一事实来源。
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/amount"
	"donation-core/pkg/errno"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// WithTx 返回绑定到事务视图的副本
func (s *Service) WithTx(tx store.Store) *Service {
	return &Service{store: tx}
}

// Page 分页查询结果; Count 是全部匹配条数，与 limit 无关
type Page struct {
	Results []model.Donation `json:"results"`
	Count   int64            `json:"count"`
}

// Append 追加一条捐款记录; 重复 id 直接拒绝
func (s *Service) Append(ctx context.Context, d *model.Donation) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	if !amount.ValidU128(d.Amount) {
		return fmt.Errorf("%w: amount %s out of u128 range", errno.ErrInvalidAmount, d.Amount)
	}
	if d.AmountRef < 0 {
		return fmt.Errorf("%w: negative reference amount", errno.ErrInvalidAmount)
	}
	if err := s.store.AppendDonation(ctx, d); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%w: %s", errno.ErrDuplicateDonation, d.ID)
		}
		return fmt.Errorf("append donation: %w", err)
	}
	return nil
}

// Exists 捐款 id 是否已经入账
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.HasDonation(ctx, id)
}

// Query page 从 1 开始，offset = (page-1)*limit
func (s *Service) Query(ctx context.Context, f store.DonationFilter, page, limit int) (*Page, error) {
	if page < 1 {
		return nil, errno.ErrInvalidPage
	}
	if limit < 0 {
		return nil, errno.ErrInvalidInput.WithMessage("limit must be >= 0")
	}
	offset := 0
	if limit > 0 {
		if page-1 > math.MaxInt/limit {
			// offset 溢出 int, 必然越过末尾: 只返回总数
			limit = 0
		} else {
			offset = (page - 1) * limit
		}
	}
	rows, total, err := s.store.ListDonations(ctx, f, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	if rows == nil {
		rows = []model.Donation{}
	}
	return &Page{Results: rows, Count: total}, nil
}

func (s *Service) All(ctx context.Context, page, limit int) (*Page, error) {
	return s.Query(ctx, store.DonationFilter{}, page, limit)
}

func (s *Service) ByCampaign(ctx context.Context, campaignID string, page, limit int) (*Page, error) {
	return s.Query(ctx, store.DonationFilter{Kind: model.TargetCampaign, TargetID: campaignID}, page, limit)
}

func (s *Service) ByEvent(ctx context.Context, eventID string, page, limit int) (*Page, error) {
	return s.Query(ctx, store.DonationFilter{Kind: model.TargetEvent, TargetID: eventID}, page, limit)
}

func (s *Service) ByDonor(ctx context.Context, donor string, page, limit int) (*Page, error) {
	return s.Query(ctx, store.DonationFilter{Donor: donor}, page, limit)
}
