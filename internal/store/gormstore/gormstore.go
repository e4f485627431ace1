// Package gormstore 是 store.Store 的 gorm 实现 (生产用 PostgreSQL)
package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"donation-core/internal/model"
	"donation-core/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate 开发环境 / 测试用; 生产走 cmd/migrate
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(model.AllModels()...)
}

func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// isUniqueViolation 兼容 postgres (23505) 与 sqlite 的唯一约束冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) exists(ctx context.Context, m interface{}, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(m).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// create 先查后插，再兜底唯一约束冲突 (并发场景)
func (s *Store) create(ctx context.Context, m interface{}, query string, args ...interface{}) error {
	ok, err := s.exists(ctx, m, query, args...)
	if err != nil {
		return err
	}
	if ok {
		return store.ErrDuplicate
	}
	if err := s.conn(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

// ---------------- donations ----------------

func (s *Store) AppendDonation(ctx context.Context, d *model.Donation) error {
	return s.create(ctx, d, "id = ?", d.ID)
}

func (s *Store) HasDonation(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, &model.Donation{}, "id = ?", id)
}

func applyDonationFilter(db *gorm.DB, f store.DonationFilter) *gorm.DB {
	if f.Donor != "" {
		db = db.Where("donor = ?", f.Donor)
	}
	if f.Kind != "" {
		db = db.Where("target_kind = ?", f.Kind)
		if f.TargetID != "" {
			switch f.Kind {
			case model.TargetEvent:
				db = db.Where("event_id = ?", f.TargetID)
			case model.TargetCampaign:
				db = db.Where("campaign_id = ?", f.TargetID)
			}
		}
	}
	return db
}

func (s *Store) ListDonations(ctx context.Context, f store.DonationFilter, offset, limit int) ([]model.Donation, int64, error) {
	var total int64
	if err := applyDonationFilter(s.conn(ctx).Model(&model.Donation{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 || int64(offset) >= total {
		return nil, total, nil
	}

	var rows []model.Donation
	err := applyDonationFilter(s.conn(ctx), f).
		Order("seq ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// ---------------- campaigns / events ----------------

func (s *Store) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	return s.create(ctx, c, "id = ?", c.ID)
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	if err := s.conn(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var list []model.Campaign
	err := s.conn(ctx).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	return s.create(ctx, e, "id = ?", e.ID)
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := s.conn(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	var list []model.Event
	err := s.conn(ctx).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (s *Store) TargetExists(ctx context.Context, t model.Target) (bool, error) {
	switch t.Kind {
	case model.TargetCampaign:
		return s.exists(ctx, &model.Campaign{}, "id = ?", t.ID)
	case model.TargetEvent:
		return s.exists(ctx, &model.Event{}, "id = ?", t.ID)
	}
	return false, nil
}

func (s *Store) AddTargetTotals(ctx context.Context, t model.Target, amount decimal.Decimal, ref float64) error {
	var m interface{}
	switch t.Kind {
	case model.TargetCampaign:
		m = &model.Campaign{}
	case model.TargetEvent:
		m = &model.Event{}
	default:
		return store.ErrNotFound
	}
	res := s.conn(ctx).Model(m).Where("id = ?", t.ID).UpdateColumns(map[string]interface{}{
		"total_raised":     gorm.Expr("total_raised + ?", amount),
		"total_raised_ref": gorm.Expr("total_raised_ref + ?", ref),
		"donations_count":  gorm.Expr("donations_count + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---------------- voting ----------------

func (s *Store) GrantCredit(ctx context.Context, t model.Target, voter string) error {
	credit := &model.VoterCredit{TargetKind: t.Kind, TargetID: t.ID, Address: voter}
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "target_kind"}, {Name: "target_id"}, {Name: "address"}},
		DoNothing: true,
	}).Create(credit).Error
}

// ConsumeCredit 条件删除，RowsAffected 决定是否抢到这张票
func (s *Store) ConsumeCredit(ctx context.Context, t model.Target, voter string) (bool, error) {
	res := s.conn(ctx).
		Where("target_kind = ? AND target_id = ? AND address = ?", t.Kind, t.ID, voter).
		Delete(&model.VoterCredit{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) HasCredit(ctx context.Context, t model.Target, voter string) (bool, error) {
	return s.exists(ctx, &model.VoterCredit{}, "target_kind = ? AND target_id = ? AND address = ?", t.Kind, t.ID, voter)
}

func (s *Store) ListVoters(ctx context.Context, t model.Target) ([]string, error) {
	var voters []string
	err := s.conn(ctx).Model(&model.VoterCredit{}).
		Where("target_kind = ? AND target_id = ?", t.Kind, t.ID).
		Order("id ASC").
		Pluck("address", &voters).Error
	return voters, err
}

func (s *Store) AddCandidate(ctx context.Context, t model.Target, partnerID string) error {
	c := &model.Candidate{TargetKind: t.Kind, TargetID: t.ID, PartnerID: partnerID}
	return s.create(ctx, c, "target_kind = ? AND target_id = ? AND partner_id = ?", t.Kind, t.ID, partnerID)
}

func (s *Store) IsCandidate(ctx context.Context, t model.Target, partnerID string) (bool, error) {
	return s.exists(ctx, &model.Candidate{}, "target_kind = ? AND target_id = ? AND partner_id = ?", t.Kind, t.ID, partnerID)
}

func (s *Store) IncrementTally(ctx context.Context, t model.Target, partnerID string) error {
	res := s.conn(ctx).Model(&model.Candidate{}).
		Where("target_kind = ? AND target_id = ? AND partner_id = ?", t.Kind, t.ID, partnerID).
		UpdateColumn("votes", gorm.Expr("votes + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListCandidates(ctx context.Context, t model.Target) ([]model.Candidate, error) {
	var list []model.Candidate
	err := s.conn(ctx).Where("target_kind = ? AND target_id = ?", t.Kind, t.ID).Order("id ASC").Find(&list).Error
	return list, err
}

// ---------------- partners / tokens ----------------

func (s *Store) CreatePartner(ctx context.Context, p *model.Partner) error {
	return s.create(ctx, p, "id = ?", p.ID)
}

func (s *Store) GetPartner(ctx context.Context, id string) (*model.Partner, error) {
	var p model.Partner
	if err := s.conn(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) ListPartners(ctx context.Context, createdBy string) ([]model.Partner, error) {
	q := s.conn(ctx).Order("created_at ASC, id ASC")
	if createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}
	var list []model.Partner
	err := q.Find(&list).Error
	return list, err
}

func (s *Store) PutToken(ctx context.Context, t *model.Token) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "symbol", "icon", "decimals"}),
	}).Create(t).Error
}

func (s *Store) GetToken(ctx context.Context, address string) (*model.Token, error) {
	var t model.Token
	if err := s.conn(ctx).Where("address = ?", address).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) ListTokens(ctx context.Context) ([]model.Token, error) {
	var list []model.Token
	err := s.conn(ctx).Order("created_at ASC, address ASC").Find(&list).Error
	return list, err
}

// ---------------- custody ----------------

func (s *Store) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	var b model.CustodyBalance
	err := s.conn(ctx).Where("asset = ?", asset).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return b.Balance, nil
}

// CreditBalance 单条 upsert: 同一资产的首笔入账并发时不会撞主键
func (s *Store) CreditBalance(ctx context.Context, asset string, amount decimal.Decimal) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    gorm.Expr("custody_balances.balance + excluded.balance"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&model.CustodyBalance{Asset: asset, Balance: amount}).Error
}

// DebitBalance 条件更新: 余额不足时不修改任何行
func (s *Store) DebitBalance(ctx context.Context, asset string, amount decimal.Decimal) error {
	res := s.conn(ctx).Model(&model.CustodyBalance{}).
		Where("asset = ? AND balance >= ?", asset, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrInsufficientBalance
	}
	return nil
}

func (s *Store) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	return s.create(ctx, w, "correlation_id = ?", w.CorrelationID)
}

func (s *Store) HasWithdrawal(ctx context.Context, correlationID string) (bool, error) {
	return s.exists(ctx, &model.Withdrawal{}, "correlation_id = ?", correlationID)
}

func (s *Store) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	var list []model.Withdrawal
	err := s.conn(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// ---------------- outbox ----------------

func (s *Store) CreateOutboxMessage(ctx context.Context, m *model.OutboxMessage) error {
	if m.Status == "" {
		m.Status = model.OutboxPending
	}
	return s.conn(ctx).Create(m).Error
}

func (s *Store) PendingOutbox(ctx context.Context, limit int) ([]model.OutboxMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	var list []model.OutboxMessage
	err := s.conn(ctx).Where("status = ?", model.OutboxPending).Order("id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (s *Store) MarkOutboxSent(ctx context.Context, id uint64) error {
	res := s.conn(ctx).Model(&model.OutboxMessage{}).Where("id = ?", id).Update("status", model.OutboxSent)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
