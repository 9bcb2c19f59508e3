package service

import (
	"context"
	"fmt"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/helper"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PortfolioService is the read side of positions and trades.
type PortfolioService interface {
	ListHoldings(ctx context.Context, user dto.AuthUser) ([]dto.Holding, error)
	ComputeReturns(ctx context.Context, user dto.AuthUser) (*dto.Returns, error)
	ListTradeHistory(ctx context.Context, user dto.AuthUser) (dto.TradeHistory, error)
	ListPositionTrades(ctx context.Context, user dto.AuthUser, positionID uint) ([]dto.TradeHistoryEntry, error)
}

type portfolioService struct {
	log          *logger.Logger
	positionRepo repository.PositionRepository
	tradeRepo    repository.TradeRepository
}

func NewPortfolioService(
	log *logger.Logger,
	positionRepo repository.PositionRepository,
	tradeRepo repository.TradeRepository,
) PortfolioService {
	return &portfolioService{
		log:          log,
		positionRepo: positionRepo,
		tradeRepo:    tradeRepo,
	}
}

func (s *portfolioService) ListHoldings(ctx context.Context, user dto.AuthUser) ([]dto.Holding, error) {
	positions, err := s.positionRepo.GetAll(ctx, user.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get positions", logger.ErrorField(err), logger.UintField("user_id", user.ID))
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	holdings := make([]dto.Holding, 0, len(positions))
	for _, p := range positions {
		holdings = append(holdings, dto.Holding{
			PortfolioID:            p.ID,
			SecurityName:           p.Security.Name,
			TickerSymbol:           p.Security.TickerSymbol,
			AverageBuyPrice:        p.AverageBuyPrice,
			TotalAvailableQuantity: p.Quantity,
		})
	}
	return holdings, nil
}

func (s *portfolioService) ComputeReturns(ctx context.Context, user dto.AuthUser) (*dto.Returns, error) {
	positions, err := s.positionRepo.GetAll(ctx, user.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get positions", logger.ErrorField(err), logger.UintField("user_id", user.ID))
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(helper.UnrealizedReturn(p.Security.CurrentPrice, p.AverageBuyPrice, p.Quantity))
	}

	return &dto.Returns{TotalReturns: total.Round(2).InexactFloat64()}, nil
}

// ListTradeHistory groups every trade by ticker. Positions without trades are
// listed with an empty history.
func (s *portfolioService) ListTradeHistory(ctx context.Context, user dto.AuthUser) (dto.TradeHistory, error) {
	var (
		positions []model.Position
		trades    []model.TradeWithTicker
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		positions, err = s.positionRepo.GetAll(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get positions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trades, err = s.tradeRepo.ListForUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get trades: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Failed to get trade history", logger.ErrorField(err), logger.UintField("user_id", user.ID))
		return nil, err
	}

	history := make(dto.TradeHistory, len(positions))
	for _, p := range positions {
		history[p.Security.TickerSymbol] = []dto.TradeHistoryEntry{}
	}
	for _, t := range trades {
		history[t.TickerSymbol] = append(history[t.TickerSymbol], toHistoryEntry(t.Trade))
	}
	return history, nil
}

func (s *portfolioService) ListPositionTrades(ctx context.Context, user dto.AuthUser, positionID uint) ([]dto.TradeHistoryEntry, error) {
	position, err := s.positionRepo.GetByID(ctx, positionID, user.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get position", logger.ErrorField(err), logger.UintField("position_id", positionID))
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	if position == nil {
		return nil, dto.ErrInvalidPortfolioID
	}

	trades, err := s.tradeRepo.ListForPosition(ctx, position.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get position trades", logger.ErrorField(err), logger.UintField("position_id", positionID))
		return nil, fmt.Errorf("failed to get position trades: %w", err)
	}

	entries := make([]dto.TradeHistoryEntry, 0, len(trades))
	for _, t := range trades {
		entries = append(entries, toHistoryEntry(t))
	}
	return entries, nil
}

func toHistoryEntry(t model.Trade) dto.TradeHistoryEntry {
	return dto.TradeHistoryEntry{
		TransactionDate:     t.CreatedAt,
		TransactionType:     t.Type,
		TransactionQuantity: t.Quantity,
		TransactionAmount:   t.Amount,
	}
}
