// Package store 定义应用状态的持久化接口。
// 所有服务都通过同一个 Store 读写状态，跨服务的原子写入用 Transaction 包起来。
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"donation-core/internal/model"
)

var (
	ErrNotFound            = errors.New("store: record not found")
	ErrDuplicate           = errors.New("store: duplicate record")
	ErrInsufficientBalance = errors.New("store: insufficient balance")
)

// DonationFilter 捐款查询条件，零值表示不过滤
type DonationFilter struct {
	Kind     model.TargetKind
	TargetID string
	Donor    string
}

// Match 内存实现和测试共用的过滤逻辑
func (f DonationFilter) Match(d *model.Donation) bool {
	if f.Donor != "" && d.Donor != f.Donor {
		return false
	}
	if f.Kind == "" {
		return true
	}
	if d.TargetKind != f.Kind {
		return false
	}
	switch f.Kind {
	case model.TargetEvent:
		return f.TargetID == "" || (d.EventID != nil && *d.EventID == f.TargetID)
	case model.TargetCampaign:
		return f.TargetID == "" || (d.CampaignID != nil && *d.CampaignID == f.TargetID)
	}
	return true
}

type Store interface {
	// Transaction 在一个原子单元内执行 fn; fn 返回错误时所有写入回滚。
	// 在事务内再次调用 Transaction 会直接复用当前事务。
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// donations
	AppendDonation(ctx context.Context, d *model.Donation) error
	HasDonation(ctx context.Context, id string) (bool, error)
	ListDonations(ctx context.Context, f DonationFilter, offset, limit int) ([]model.Donation, int64, error)

	// campaigns / events
	CreateCampaign(ctx context.Context, c *model.Campaign) error
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	TargetExists(ctx context.Context, t model.Target) (bool, error)
	AddTargetTotals(ctx context.Context, t model.Target, amount decimal.Decimal, ref float64) error

	// voting
	GrantCredit(ctx context.Context, t model.Target, voter string) error
	ConsumeCredit(ctx context.Context, t model.Target, voter string) (bool, error)
	HasCredit(ctx context.Context, t model.Target, voter string) (bool, error)
	ListVoters(ctx context.Context, t model.Target) ([]string, error)
	AddCandidate(ctx context.Context, t model.Target, partnerID string) error
	IsCandidate(ctx context.Context, t model.Target, partnerID string) (bool, error)
	IncrementTally(ctx context.Context, t model.Target, partnerID string) error
	ListCandidates(ctx context.Context, t model.Target) ([]model.Candidate, error)

	// partners / tokens
	CreatePartner(ctx context.Context, p *model.Partner) error
	GetPartner(ctx context.Context, id string) (*model.Partner, error)
	ListPartners(ctx context.Context, createdBy string) ([]model.Partner, error)
	PutToken(ctx context.Context, t *model.Token) error
	GetToken(ctx context.Context, address string) (*model.Token, error)
	ListTokens(ctx context.Context) ([]model.Token, error)

	// custody
	GetBalance(ctx context.Context, asset string) (decimal.Decimal, error)
	CreditBalance(ctx context.Context, asset string, amount decimal.Decimal) error
	DebitBalance(ctx context.Context, asset string, amount decimal.Decimal) error
	CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error
	HasWithdrawal(ctx context.Context, correlationID string) (bool, error)
	ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error)

	// outbox
	CreateOutboxMessage(ctx context.Context, m *model.OutboxMessage) error
	PendingOutbox(ctx context.Context, limit int) ([]model.OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, id uint64) error
}
