package dto

import "time"

type CreateSecurityRequest struct {
	Name         string  `json:"name" validate:"required"`
	TickerSymbol string  `json:"ticker_symbol" validate:"required"`
	CurrentPrice float64 `json:"current_price" validate:"gt=0"`
	IsActive     *bool   `json:"is_active"`
}

type UpdateSecurityPriceRequest struct {
	ID           uint    `json:"id" validate:"required,gt=0"`
	CurrentPrice float64 `json:"current_price" validate:"gt=0"`
}

type SecurityResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	TickerSymbol string    `json:"ticker_symbol"`
	CurrentPrice float64   `json:"current_price"`
	UpdatedOn    time.Time `json:"updated_on"`
}

type SecurityPrice struct {
	ID           uint
	CurrentPrice float64
}

type RefreshPricesResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

type RefreshRunResponse struct {
	ID            uint       `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Status        string     `json:"status"`
	ExitCode      *int32     `json:"exit_code,omitempty"`
	Updated       int        `json:"updated"`
	FailedTickers []string   `json:"failed_tickers,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
