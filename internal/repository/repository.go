package repository

import (
	"portfolio-tracker/config"
	"portfolio-tracker/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PositionRepo PositionRepository
	TradeRepo    TradeRepository
	SecurityRepo SecurityRepository
	UserRepo     UserRepository
	QuoteRepo    QuoteRepository
	RefreshRuns  RefreshRunRepository
	UnitOfWork   UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		PositionRepo: NewPositionRepository(db),
		TradeRepo:    NewTradeRepository(db),
		SecurityRepo: NewSecurityRepository(db),
		UserRepo:     NewUserRepository(db),
		QuoteRepo:    NewYahooFinanceRepository(cfg.PriceFeed, log),
		RefreshRuns:  NewRefreshRunRepository(db),
		UnitOfWork:   NewUnitOfWork(db),
	}
}
