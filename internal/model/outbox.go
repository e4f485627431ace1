package model

import (
	"time"
)

const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
)

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic     string    `gorm:"type:varchar(255);not null" json:"topic"`
	Key       string    `gorm:"type:varchar(255);not null;default:''" json:"key"` // 分区键
	Payload   []byte    `gorm:"type:text;not null" json:"payload"`
	Status    string    `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}
