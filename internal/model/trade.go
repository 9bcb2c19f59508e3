package model

import "time"

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

func (t TradeType) IsValid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// Trade is one executed BUY or SELL against a position. Trades are ordered by
// (created_at, id); only the last one of a position may be amended or removed.
type Trade struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PositionID uint      `gorm:"not null;index" json:"position_id"`
	Type       TradeType `gorm:"column:transaction_type;type:trade_type;not null" json:"transaction_type"`
	Amount     float64   `gorm:"column:transaction_amount;not null" json:"transaction_amount"`
	Quantity   int64     `gorm:"column:transaction_quantity;not null" json:"transaction_quantity"`
	IsValid    bool      `gorm:"column:is_valid_trade;not null;default:false" json:"is_valid_trade"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_on"`
}

func (Trade) TableName() string {
	return "trades"
}

// TradeWithTicker is a trade row joined with the ticker of its position's security.
type TradeWithTicker struct {
	Trade
	TickerSymbol string `gorm:"column:ticker_symbol"`
}
