package dto

import "portfolio-tracker/internal/model"

// PositionState is the part of a position the trade arithmetic works on.
type PositionState struct {
	Quantity     int64
	AveragePrice float64
}

// TradeTerms are the economic terms of a single trade.
type TradeTerms struct {
	Type     model.TradeType
	Price    float64
	Quantity int64
}

func StateOf(p *model.Position) PositionState {
	return PositionState{Quantity: p.Quantity, AveragePrice: p.AverageBuyPrice}
}

func TermsOf(t *model.Trade) TradeTerms {
	return TradeTerms{Type: t.Type, Price: t.Amount, Quantity: t.Quantity}
}
