package model

import "time"

// Position is a user's aggregated holding in one security. There is at most
// one row per (user_id, security_id); rows are never deleted, a fully sold
// position stays with quantity 0.
type Position struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SecurityID      uint      `gorm:"not null;uniqueIndex:ux_positions_security_user" json:"security_id"`
	UserID          uint      `gorm:"not null;uniqueIndex:ux_positions_security_user;index" json:"user_id"`
	AverageBuyPrice float64   `gorm:"not null" json:"average_buy_price"`
	Quantity        int64     `gorm:"not null;default:0" json:"quantity"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_on"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_on"`
	Security        Security  `gorm:"foreignKey:SecurityID;references:ID" json:"-"`
	Trades          []Trade   `gorm:"foreignKey:PositionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Position) TableName() string {
	return "positions"
}
