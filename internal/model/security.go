package model

import "time"

type Security struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	TickerSymbol string    `gorm:"column:ticker_symbol;uniqueIndex;not null" json:"ticker_symbol"`
	CurrentPrice float64   `gorm:"not null" json:"current_price"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_on"`
	UpdatedBy    *uint     `json:"updated_by,omitempty"`
}

func (Security) TableName() string {
	return "securities"
}

type GetSecurityParam struct {
	IDs           []uint
	TickerSymbols []string
	IsActive      *bool
}
