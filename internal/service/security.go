package service

import (
	"context"
	"fmt"

	"portfolio-tracker/config"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/cache"
	"portfolio-tracker/pkg/common"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/utils"
)

// SecurityService manages the security catalog. The trade orchestrator only
// reads securities; prices are written here or by the price refresh.
type SecurityService interface {
	CreateSecurities(ctx context.Context, user dto.AuthUser, req []dto.CreateSecurityRequest) error
	UpdatePrices(ctx context.Context, user dto.AuthUser, req []dto.UpdateSecurityPriceRequest) error
	ListSecurities(ctx context.Context, tickerSymbol string) ([]dto.SecurityResponse, error)
	InvalidateListing()
}

type securityService struct {
	cfg          *config.Config
	log          *logger.Logger
	cache        cache.Cache
	securityRepo repository.SecurityRepository
	unitOfWork   repository.UnitOfWork
}

func NewSecurityService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	securityRepo repository.SecurityRepository,
	unitOfWork repository.UnitOfWork,
) SecurityService {
	return &securityService{
		cfg:          cfg,
		log:          log,
		cache:        inmemoryCache,
		securityRepo: securityRepo,
		unitOfWork:   unitOfWork,
	}
}

func (s *securityService) CreateSecurities(ctx context.Context, user dto.AuthUser, req []dto.CreateSecurityRequest) error {
	if len(req) == 0 {
		return fmt.Errorf("%w: at least one security is required", dto.ErrValidation)
	}

	securities := make([]model.Security, 0, len(req))
	tickers := make([]string, 0, len(req))
	for _, r := range req {
		ticker := utils.NormalizeTicker(r.TickerSymbol)
		name := utils.NormalizeTicker(r.Name)
		if ticker == "" || name == "" {
			return fmt.Errorf("%w: name and ticker_symbol are required", dto.ErrValidation)
		}
		if r.CurrentPrice <= 0 {
			return fmt.Errorf("%w: current_price must be greater than 0", dto.ErrValidation)
		}
		if utils.ContainsString(tickers, ticker) {
			return fmt.Errorf("%w: duplicate ticker_symbol %s", dto.ErrValidation, ticker)
		}
		tickers = append(tickers, ticker)

		isActive := true
		if r.IsActive != nil {
			isActive = *r.IsActive
		}
		securities = append(securities, model.Security{
			Name:         name,
			TickerSymbol: ticker,
			CurrentPrice: r.CurrentPrice,
			IsActive:     isActive,
			UpdatedBy:    utils.ToPointer(user.ID),
		})
	}

	err := s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		existing, err := s.securityRepo.FindExistingTickers(ctx, tickers, opts...)
		if err != nil {
			return storeFailure("find existing tickers", err)
		}
		if len(existing) > 0 {
			return &dto.DuplicateTickersError{Tickers: existing}
		}
		if err := s.securityRepo.CreateBatch(ctx, securities, opts...); err != nil {
			return storeFailure("create securities", err)
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "Failed to create securities", err, logger.UintField("user_id", user.ID))
		return asTransactionError(err)
	}

	s.InvalidateListing()
	s.log.InfoContext(ctx, "Securities created",
		logger.UintField("user_id", user.ID),
		logger.IntField("count", len(securities)),
	)
	return nil
}

func (s *securityService) UpdatePrices(ctx context.Context, user dto.AuthUser, req []dto.UpdateSecurityPriceRequest) error {
	if len(req) == 0 {
		return fmt.Errorf("%w: at least one security is required", dto.ErrValidation)
	}

	prices := make([]dto.SecurityPrice, 0, len(req))
	for _, r := range req {
		if r.ID == 0 || r.CurrentPrice <= 0 {
			return fmt.Errorf("%w: id and a positive current_price are required", dto.ErrValidation)
		}
		prices = append(prices, dto.SecurityPrice{ID: r.ID, CurrentPrice: r.CurrentPrice})
	}

	err := s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.securityRepo.UpdatePrices(ctx, prices, utils.ToPointer(user.ID), opts...); err != nil {
			return storeFailure("update prices", err)
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "Failed to update security prices", err, logger.UintField("user_id", user.ID))
		return asTransactionError(err)
	}

	s.InvalidateListing()
	s.log.InfoContext(ctx, "Security prices updated",
		logger.UintField("user_id", user.ID),
		logger.IntField("count", len(prices)),
	)
	return nil
}

// ListSecurities returns active securities, optionally only the one with the
// given ticker. Results are cached until the next catalog write.
func (s *securityService) ListSecurities(ctx context.Context, tickerSymbol string) ([]dto.SecurityResponse, error) {
	ticker := utils.NormalizeTicker(tickerSymbol)
	cacheKey := fmt.Sprintf(common.KEY_SECURITY_LISTING, ticker)
	if cached, ok := cache.GetFromCache[[]dto.SecurityResponse](s.cache, cacheKey); ok {
		return cached, nil
	}

	param := model.GetSecurityParam{IsActive: utils.ToPointer(true)}
	if ticker != "" {
		param.TickerSymbols = []string{ticker}
	}
	securities, err := s.securityRepo.Get(ctx, param)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get securities", logger.ErrorField(err), logger.StringField("ticker_symbol", ticker))
		return nil, fmt.Errorf("failed to get securities: %w", err)
	}

	result := make([]dto.SecurityResponse, 0, len(securities))
	for _, sec := range securities {
		result = append(result, dto.SecurityResponse{
			ID:           sec.ID,
			Name:         sec.Name,
			TickerSymbol: sec.TickerSymbol,
			CurrentPrice: sec.CurrentPrice,
			UpdatedOn:    sec.UpdatedAt,
		})
	}

	s.cache.Set(cacheKey, result, s.cfg.Cache.SecurityListing)
	return result, nil
}

func (s *securityService) InvalidateListing() {
	s.cache.DeletePrefix(common.KEY_SECURITY_LISTING_PREFIX)
}
