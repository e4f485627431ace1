package model

import "time"

// Partner 受益合作伙伴
type Partner struct {
	ID          string    `gorm:"type:varchar(128);primaryKey" json:"id"`
	CreatedBy   string    `gorm:"type:varchar(128);not null;index" json:"created_by"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `gorm:"type:varchar(255)" json:"website"`
	Logo        string    `gorm:"type:varchar(255)" json:"logo"`
	Banner      string    `gorm:"type:varchar(255)" json:"banner"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Partner) TableName() string {
	return "partners"
}

// Token 已登记的第三方代币元数据
type Token struct {
	Address   string    `gorm:"type:varchar(128);primaryKey" json:"address"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Symbol    string    `gorm:"type:varchar(32);not null" json:"symbol"`
	Icon      string    `gorm:"type:text" json:"icon"`
	Decimals  uint8     `gorm:"not null" json:"decimals"`
	CreatedAt time.Time `json:"created_at"`
}

func (Token) TableName() string {
	return "tokens"
}
