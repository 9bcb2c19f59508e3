package dto

type Holding struct {
	PortfolioID            uint    `json:"portfolio_id"`
	SecurityName           string  `json:"security_name"`
	TickerSymbol           string  `json:"ticker_symbol"`
	AverageBuyPrice        float64 `json:"average_buy_price"`
	TotalAvailableQuantity int64   `json:"total_available_quantity"`
}

type Returns struct {
	TotalReturns float64 `json:"total_returns"`
}
