package service

import (
	"portfolio-tracker/config"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/auth"
	"portfolio-tracker/pkg/cache"
	"portfolio-tracker/pkg/logger"
)

type Service struct {
	TradeService        TradeService
	PortfolioService    PortfolioService
	SecurityService     SecurityService
	UserService         UserService
	PriceRefreshService PriceRefreshService
	SchedulerService    SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	tokenIssuer *auth.TokenIssuer,
) *Service {
	securityService := NewSecurityService(cfg, log, inmemoryCache, repo.SecurityRepo, repo.UnitOfWork)
	priceRefreshService := NewPriceRefreshService(cfg, log, repo.SecurityRepo, repo.QuoteRepo, repo.UnitOfWork, securityService)

	return &Service{
		TradeService:        NewTradeService(log, repo.PositionRepo, repo.TradeRepo, repo.SecurityRepo, repo.UnitOfWork),
		PortfolioService:    NewPortfolioService(log, repo.PositionRepo, repo.TradeRepo),
		SecurityService:     securityService,
		UserService:         NewUserService(cfg, log, repo.UserRepo, tokenIssuer),
		PriceRefreshService: priceRefreshService,
		SchedulerService:    NewSchedulerService(cfg, log, priceRefreshService, repo.RefreshRuns),
	}
}
