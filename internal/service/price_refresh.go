package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// PriceRefreshService pulls the latest market price of every active security
// from the quote feed and stores it as the security's current price.
type PriceRefreshService interface {
	Refresh(ctx context.Context) (*dto.RefreshPricesResult, error)
}

type priceRefreshService struct {
	cfg             *config.Config
	log             *logger.Logger
	securityRepo    repository.SecurityRepository
	quoteRepo       repository.QuoteRepository
	unitOfWork      repository.UnitOfWork
	securityService SecurityService
}

func NewPriceRefreshService(
	cfg *config.Config,
	log *logger.Logger,
	securityRepo repository.SecurityRepository,
	quoteRepo repository.QuoteRepository,
	unitOfWork repository.UnitOfWork,
	securityService SecurityService,
) PriceRefreshService {
	return &priceRefreshService{
		cfg:             cfg,
		log:             log,
		securityRepo:    securityRepo,
		quoteRepo:       quoteRepo,
		unitOfWork:      unitOfWork,
		securityService: securityService,
	}
}

// Refresh fetches quotes concurrently. A ticker whose quote cannot be fetched
// is reported in Failed and keeps its previous price.
func (s *priceRefreshService) Refresh(ctx context.Context) (*dto.RefreshPricesResult, error) {
	securities, err := s.securityRepo.Get(ctx, model.GetSecurityParam{IsActive: utils.ToPointer(true)})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get active securities", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to get active securities: %w", err)
	}

	result := &dto.RefreshPricesResult{}
	if len(securities) == 0 {
		s.log.InfoContext(ctx, "No active securities to refresh")
		return result, nil
	}

	var (
		mu     sync.Mutex
		prices = make([]dto.SecurityPrice, 0, len(securities))
	)

	maxConcurrency := s.cfg.PriceFeed.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for _, sec := range securities {
		sec := sec
		g.Go(func() error {
			quote, err := s.quoteRepo.GetLastPrice(gctx, sec.TickerSymbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.WarnContext(ctx, "Failed to fetch quote",
					logger.StringField("ticker_symbol", sec.TickerSymbol),
					logger.ErrorField(err),
				)
				result.Failed = append(result.Failed, sec.TickerSymbol)
				return nil
			}
			prices = append(prices, dto.SecurityPrice{ID: sec.ID, CurrentPrice: quote.Price})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.log.WarnContext(ctx, "Price refresh cancelled", logger.ErrorField(err))
		return nil, err
	}

	sort.Strings(result.Failed)
	if len(prices) == 0 {
		return result, nil
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].ID < prices[j].ID })
	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.securityRepo.UpdatePrices(ctx, prices, nil, opts...); err != nil {
			return storeFailure("update prices", err)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to store refreshed prices", logger.ErrorField(err))
		return nil, asTransactionError(err)
	}

	s.securityService.InvalidateListing()
	result.Updated = len(prices)
	s.log.InfoContext(ctx, "Security prices refreshed",
		logger.IntField("updated", result.Updated),
		logger.IntField("failed", len(result.Failed)),
	)
	return result, nil
}
