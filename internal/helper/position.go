package helper

import (
	"fmt"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the number of decimals every average price is rounded to.
const moneyPlaces = 2

// RoundMoney rounds half away from zero to two decimals.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(moneyPlaces).InexactFloat64()
}

func cost(price float64, qty int64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty))
}

// ApplyTrade returns the position state after the trade is executed.
// BUY recomputes the weighted average price; SELL only decrements quantity.
func ApplyTrade(state dto.PositionState, trade dto.TradeTerms) (dto.PositionState, error) {
	if trade.Quantity <= 0 || trade.Price <= 0 {
		return state, fmt.Errorf("%w: trade price and quantity must be positive", dto.ErrValidation)
	}

	switch trade.Type {
	case model.TradeTypeBuy:
		newQty := state.Quantity + trade.Quantity
		avg := cost(state.AveragePrice, state.Quantity).
			Add(cost(trade.Price, trade.Quantity)).
			Div(decimal.NewFromInt(newQty))
		return dto.PositionState{
			Quantity:     newQty,
			AveragePrice: avg.Round(moneyPlaces).InexactFloat64(),
		}, nil
	case model.TradeTypeSell:
		if trade.Quantity > state.Quantity {
			return state, dto.ErrInsufficientQuantity
		}
		return dto.PositionState{
			Quantity:     state.Quantity - trade.Quantity,
			AveragePrice: state.AveragePrice,
		}, nil
	default:
		return state, fmt.Errorf("%w: unknown trade type %q", dto.ErrValidation, trade.Type)
	}
}

// UndoTrade returns the position state as if trade had never been applied.
//
// Undoing a BUY that leaves no shares divides by one instead of zero; the
// resulting average is a placeholder and carries no meaning at quantity 0.
// Undoing a BUY that would leave a negative quantity means the ledger and the
// position disagree and fails with dto.ErrInvalidState.
func UndoTrade(state dto.PositionState, trade dto.TradeTerms) (dto.PositionState, error) {
	switch trade.Type {
	case model.TradeTypeBuy:
		reverted := state.Quantity - trade.Quantity
		if reverted < 0 {
			return state, dto.ErrInvalidState
		}
		divisor := reverted
		if divisor == 0 {
			divisor = 1
		}
		avg := cost(state.AveragePrice, state.Quantity).
			Sub(cost(trade.Price, trade.Quantity)).
			Div(decimal.NewFromInt(divisor))
		return dto.PositionState{
			Quantity:     reverted,
			AveragePrice: avg.Round(moneyPlaces).InexactFloat64(),
		}, nil
	case model.TradeTypeSell:
		return dto.PositionState{
			Quantity:     state.Quantity + trade.Quantity,
			AveragePrice: state.AveragePrice,
		}, nil
	default:
		return state, fmt.Errorf("%w: unknown trade type %q", dto.ErrValidation, trade.Type)
	}
}

// UnrealizedReturn is (currentPrice - averagePrice) * quantity.
func UnrealizedReturn(currentPrice, averagePrice float64, quantity int64) decimal.Decimal {
	return decimal.NewFromFloat(currentPrice).
		Sub(decimal.NewFromFloat(averagePrice)).
		Mul(decimal.NewFromInt(quantity))
}
