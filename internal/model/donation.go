package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Donation 捐款记录 (只追加，创建后不可修改)
// Seq 保证插入顺序，ID 由调用方提供并全局唯一
type Donation struct {
	Seq        uint64          `gorm:"primaryKey;autoIncrement" json:"-"`
	ID         string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"id"`
	Donor      string          `gorm:"type:varchar(128);not null;index" json:"donor"`
	Asset      string          `gorm:"type:varchar(128);not null" json:"asset"`
	Amount     decimal.Decimal `gorm:"type:decimal(39,0);not null" json:"amount"`
	AmountRef  float64         `gorm:"not null;default:0" json:"amount_ref"`
	TargetKind TargetKind      `gorm:"type:varchar(16);not null;index:idx_donation_target" json:"target_kind"`
	EventID    *string         `gorm:"type:varchar(128);index:idx_donation_target" json:"event_id"`
	CampaignID *string         `gorm:"type:varchar(128);index:idx_donation_target" json:"campaign_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Donation) TableName() string {
	return "donations"
}

// Validate 检查 target kind 与 event/campaign id 的组合约束
func (d *Donation) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("donation id is empty")
	}
	if d.Donor == "" {
		return fmt.Errorf("donor is empty")
	}
	switch d.TargetKind {
	case TargetGeneral:
		if d.EventID != nil || d.CampaignID != nil {
			return fmt.Errorf("general donation must not reference an event or campaign")
		}
	case TargetEvent:
		if d.EventID == nil || d.CampaignID != nil {
			return fmt.Errorf("event donation must reference exactly an event")
		}
	case TargetCampaign:
		if d.CampaignID == nil || d.EventID != nil {
			return fmt.Errorf("campaign donation must reference exactly a campaign")
		}
	default:
		return fmt.Errorf("unknown target kind %q", d.TargetKind)
	}
	return nil
}

// Target 返回捐款指向的投票对象; general 捐款返回 false
func (d *Donation) Target() (Target, bool) {
	switch d.TargetKind {
	case TargetEvent:
		return EventTarget(*d.EventID), true
	case TargetCampaign:
		return CampaignTarget(*d.CampaignID), true
	}
	return Target{}, false
}
