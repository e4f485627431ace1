package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustodyBalance 系统托管的每种资产余额
type CustodyBalance struct {
	Asset     string          `gorm:"type:varchar(128);primaryKey" json:"asset"`
	Balance   decimal.Decimal `gorm:"type:decimal(39,0);not null;default:0" json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CustodyBalance) TableName() string {
	return "custody_balances"
}

// Withdrawal 已确认的出金记录，只在 Confirmed 时写入
type Withdrawal struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CorrelationID string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"correlation_id"`
	FromAccount   string          `gorm:"type:varchar(128);not null" json:"from"`
	ToAccount     string          `gorm:"type:varchar(128);not null" json:"to"`
	Asset         string          `gorm:"type:varchar(128);not null" json:"asset"`
	Amount        decimal.Decimal `gorm:"type:decimal(39,0);not null" json:"amount"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

const WithdrawalCompleted = "completed"
