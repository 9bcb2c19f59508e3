package dto

import (
	"fmt"
	"strconv"
	"time"

	"portfolio-tracker/internal/model"
)

type SubmitTradeRequest struct {
	SecurityID        uint            `json:"security_id" validate:"required,gt=0"`
	TransactionType   model.TradeType `json:"transaction_type" validate:"required,oneof=BUY SELL"`
	TransactionAmount float64         `json:"transaction_amount" validate:"required,gt=0"`
	Quantity          int64           `json:"quantity" validate:"required,gt=0"`
}

func (r SubmitTradeRequest) Validate() error {
	return validateTerms(r.SecurityID, r.TransactionType, r.TransactionAmount, r.Quantity)
}

func (r SubmitTradeRequest) Terms() TradeTerms {
	return TradeTerms{Type: r.TransactionType, Price: r.TransactionAmount, Quantity: r.Quantity}
}

// AmendTradeRequest replaces the terms of the last trade of UpdatingPortfolioID.
// SecurityID zero keeps the trade on the same security.
type AmendTradeRequest struct {
	UpdatingPortfolioID uint            `json:"updating_portfolio_id" validate:"required,gt=0"`
	SecurityID          uint            `json:"security_id"`
	TransactionType     model.TradeType `json:"transaction_type" validate:"required,oneof=BUY SELL"`
	TransactionAmount   float64         `json:"transaction_amount" validate:"required,gt=0"`
	Quantity            int64           `json:"quantity" validate:"required,gt=0"`
}

func (r AmendTradeRequest) Validate() error {
	if r.UpdatingPortfolioID == 0 {
		return fmt.Errorf("%w: updating_portfolio_id is required", ErrValidation)
	}
	if err := validateType(r.TransactionType); err != nil {
		return err
	}
	return validateAmounts(r.TransactionAmount, r.Quantity)
}

func (r AmendTradeRequest) Terms() TradeTerms {
	return TradeTerms{Type: r.TransactionType, Price: r.TransactionAmount, Quantity: r.Quantity}
}

type DeleteTradeRequest struct {
	PortfolioID uint `json:"portfolio_id" query:"portfolio_id" validate:"required,gt=0"`
}

func (r DeleteTradeRequest) Validate() error {
	if r.PortfolioID == 0 {
		return fmt.Errorf("%w: portfolio_id is required", ErrValidation)
	}
	return nil
}

func validateTerms(securityID uint, t model.TradeType, amount float64, qty int64) error {
	if securityID == 0 {
		return fmt.Errorf("%w: security_id is required", ErrValidation)
	}
	if err := validateType(t); err != nil {
		return err
	}
	return validateAmounts(amount, qty)
}

func validateType(t model.TradeType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: transaction_type can only be BUY or SELL", ErrValidation)
	}
	return nil
}

func validateAmounts(amount float64, qty int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: transaction_amount can not be less than or equal to 0", ErrValidation)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity can not be less than or equal to 0", ErrValidation)
	}
	return nil
}

// TradeResult is the outcome of a successful orchestrator operation.
type TradeResult struct {
	Message    string
	TradeID    uint
	PositionID uint
}

func (r *TradeResult) RefID() string {
	if r == nil || r.TradeID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(r.TradeID), 10)
}

type ReplaceTradeParam struct {
	PositionID uint
	Type       model.TradeType
	Amount     float64
	Quantity   int64
}

type TradeHistoryEntry struct {
	TransactionDate     time.Time       `json:"transaction_date"`
	TransactionType     model.TradeType `json:"transaction_type"`
	TransactionQuantity int64           `json:"transaction_quantity"`
	TransactionAmount   float64         `json:"transaction_amount"`
}

// TradeHistory groups trades by ticker symbol, each list ascending by time.
type TradeHistory map[string][]TradeHistoryEntry
