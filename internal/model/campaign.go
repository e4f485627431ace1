package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Campaign 募捐活动
type Campaign struct {
	ID               string                      `gorm:"type:varchar(128);primaryKey" json:"id"`
	CreatedBy        string                      `gorm:"type:varchar(128);not null;index" json:"created_by"`
	Managers         datatypes.JSONSlice[string] `json:"managers"`
	Title            string                      `gorm:"type:varchar(255);not null" json:"title"`
	Cause            string                      `gorm:"type:varchar(128);index" json:"cause"` // 公益方向: food security, water, tree planting...
	StartDate        time.Time                   `json:"start_date"`
	EndDate          time.Time                   `json:"end_date"`
	Description      string                      `gorm:"type:text" json:"description"`
	Target           decimal.Decimal             `gorm:"type:decimal(39,0);not null;default:0" json:"target"`
	Asset            string                      `gorm:"type:varchar(128);not null" json:"asset"`
	TotalRaised      decimal.Decimal             `gorm:"type:decimal(39,0);not null;default:0" json:"total_raised"`
	TotalRaisedRef   float64                     `gorm:"not null;default:0" json:"total_raised_ref"`
	DonationsCount   uint64                      `gorm:"not null;default:0" json:"donations_count"`
	FinalizedPartner *string                     `gorm:"type:varchar(128)" json:"finalized_partner"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// Event 线上/线下活动，和 Campaign 结构平行
type Event struct {
	ID               string                      `gorm:"type:varchar(128);primaryKey" json:"id"`
	CreatedBy        string                      `gorm:"type:varchar(128);not null;index" json:"created_by"`
	Managers         datatypes.JSONSlice[string] `json:"managers"`
	Title            string                      `gorm:"type:varchar(255);not null" json:"title"`
	Cause            string                      `gorm:"type:varchar(128);index" json:"cause"`
	Date             time.Time                   `json:"date"`
	Description      string                      `gorm:"type:text" json:"description"`
	Target           decimal.Decimal             `gorm:"type:decimal(39,0);not null;default:0" json:"target"`
	Asset            string                      `gorm:"type:varchar(128);not null" json:"asset"`
	Venue            *string                     `gorm:"type:varchar(255)" json:"venue"`
	EventType        string                      `gorm:"type:varchar(32)" json:"event_type"` // online, physical
	Channel          *string                     `gorm:"type:varchar(64)" json:"channel"`    // twitter spaces, youtube, google meet...
	ChannelURL       *string                     `gorm:"type:varchar(255)" json:"channel_url"`
	TotalRaised      decimal.Decimal             `gorm:"type:decimal(39,0);not null;default:0" json:"total_raised"`
	TotalRaisedRef   float64                     `gorm:"not null;default:0" json:"total_raised_ref"`
	DonationsCount   uint64                      `gorm:"not null;default:0" json:"donations_count"`
	FinalizedPartner *string                     `gorm:"type:varchar(128)" json:"finalized_partner"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}

// VoterCredit 投票资格: 每个 (target, address) 至多一条，有或无，不计数
type VoterCredit struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_voter_target" json:"target_kind"`
	TargetID   string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_voter_target" json:"target_id"`
	Address    string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_voter_target" json:"address"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (VoterCredit) TableName() string {
	return "voter_credits"
}

// Candidate 候选合作伙伴及其得票
type Candidate struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_candidate_target" json:"target_kind"`
	TargetID   string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_candidate_target" json:"target_id"`
	PartnerID  string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_candidate_target" json:"partner_id"`
	Votes      uint64     `gorm:"not null;default:0" json:"votes"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}
