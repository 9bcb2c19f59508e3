package repository

import (
	"context"
	"fmt"
	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/pkg/httpclient"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/ratelimit"

	"golang.org/x/time/rate"
)

// QuoteRepository fetches the latest traded price of a ticker from an external feed.
type QuoteRepository interface {
	GetLastPrice(ctx context.Context, ticker string) (*dto.Quote, error)
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            config.PriceFeed
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewYahooFinanceRepository(cfg config.PriceFeed, log *logger.Logger) QuoteRepository {
	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Referer":    "https://finance.yahoo.com/",
	}
	client := httpclient.New(httpclient.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		Headers:       headers,
		RetryCount:    cfg.RetryCount,
		RetryWaitTime: cfg.RetryWait,
	})
	return newYahooFinanceRepository(cfg, log, client)
}

func newYahooFinanceRepository(cfg config.PriceFeed, log *logger.Logger, client httpclient.HTTPClient) *yahooFinanceRepository {
	return &yahooFinanceRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(ratelimit.PerMinute(cfg.MaxRequestPerMinute), 1),
	}
}

func (r *yahooFinanceRepository) GetLastPrice(ctx context.Context, ticker string) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var yahooResp dto.YahooChartResponse
	resp, err := r.httpClient.Get(ctx, httpclient.Request{
		Endpoint: "/" + ticker + r.cfg.TickerSuffix,
		Query: map[string]string{
			"range":          "1d",
			"interval":       "1d",
			"includePrePost": "false",
		},
		Result: &yahooResp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote from yahoo finance: %w", err)
	}

	if !resp.IsSuccess() {
		r.logger.WarnContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.StringField("ticker", ticker),
			logger.IntField("status_code", resp.StatusCode),
			logger.IntField("attempts", resp.Attempts))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", yahooResp.Chart.Error)
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", ticker)
	}

	price := yahooResp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return nil, fmt.Errorf("no market price for symbol: %s", ticker)
	}

	return &dto.Quote{TickerSymbol: ticker, Price: price}, nil
}
