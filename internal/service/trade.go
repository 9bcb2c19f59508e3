package service

import (
	"context"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/helper"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/pkg/logger"
	"portfolio-tracker/pkg/utils"
)

// TradeService is the trade orchestrator. Every operation runs in exactly one
// unit of work; any failure rolls back both the ledger and the position.
type TradeService interface {
	SubmitTrade(ctx context.Context, user dto.AuthUser, req dto.SubmitTradeRequest) (*dto.TradeResult, error)
	AmendLastTrade(ctx context.Context, user dto.AuthUser, req dto.AmendTradeRequest) (*dto.TradeResult, error)
	DeleteLastTrade(ctx context.Context, user dto.AuthUser, req dto.DeleteTradeRequest) (*dto.TradeResult, error)
}

type tradeService struct {
	log          *logger.Logger
	positionRepo repository.PositionRepository
	tradeRepo    repository.TradeRepository
	securityRepo repository.SecurityRepository
	unitOfWork   repository.UnitOfWork
}

func NewTradeService(
	log *logger.Logger,
	positionRepo repository.PositionRepository,
	tradeRepo repository.TradeRepository,
	securityRepo repository.SecurityRepository,
	unitOfWork repository.UnitOfWork,
) TradeService {
	return &tradeService{
		log:          log,
		positionRepo: positionRepo,
		tradeRepo:    tradeRepo,
		securityRepo: securityRepo,
		unitOfWork:   unitOfWork,
	}
}

func (s *tradeService) SubmitTrade(ctx context.Context, user dto.AuthUser, req dto.SubmitTradeRequest) (*dto.TradeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &dto.TradeResult{Message: dto.CodeTransactionSuccessful}
	err := s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		if err := s.ensureSecurity(ctx, req.SecurityID, opts...); err != nil {
			return err
		}

		position, err := s.positionRepo.GetByUserAndSecurity(ctx, user.ID, req.SecurityID, append(opts, utils.WithLockForUpdate())...)
		if err != nil {
			return storeFailure("get position", err)
		}

		terms := req.Terms()
		if terms.Type == model.TradeTypeSell {
			if err := checkSellable(position, terms.Quantity); err != nil {
				return err
			}
		}

		if position == nil {
			position = &model.Position{
				SecurityID:      req.SecurityID,
				UserID:          user.ID,
				AverageBuyPrice: helper.RoundMoney(terms.Price),
				Quantity:        terms.Quantity,
			}
			if err := s.positionRepo.Create(ctx, position, opts...); err != nil {
				return storeFailure("create position", err)
			}
		} else {
			next, err := helper.ApplyTrade(dto.StateOf(position), terms)
			if err != nil {
				return err
			}
			if err := s.positionRepo.Update(ctx, position.ID, next, opts...); err != nil {
				return storeFailure("update position", err)
			}
		}

		trade := &model.Trade{
			PositionID: position.ID,
			Type:       terms.Type,
			Amount:     terms.Price,
			Quantity:   terms.Quantity,
			IsValid:    true,
			UserID:     user.ID,
		}
		if err := s.tradeRepo.Append(ctx, trade, opts...); err != nil {
			return storeFailure("append trade", err)
		}

		result.TradeID = trade.ID
		result.PositionID = position.ID
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "Failed to submit trade", err,
			logger.UintField("user_id", user.ID),
			logger.UintField("security_id", req.SecurityID),
			logger.StringField("transaction_type", string(req.TransactionType)),
		)
		return nil, asTransactionError(err)
	}

	s.log.InfoContext(ctx, "Trade submitted",
		logger.UintField("user_id", user.ID),
		logger.UintField("trade_id", result.TradeID),
		logger.UintField("position_id", result.PositionID),
	)
	return result, nil
}

func (s *tradeService) AmendLastTrade(ctx context.Context, user dto.AuthUser, req dto.AmendTradeRequest) (*dto.TradeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &dto.TradeResult{Message: dto.CodeTransactionUpdated}
	err := s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		locked := append(opts, utils.WithLockForUpdate())

		source, err := s.positionRepo.GetByID(ctx, req.UpdatingPortfolioID, user.ID, locked...)
		if err != nil {
			return storeFailure("get position", err)
		}
		if source == nil {
			return dto.ErrInvalidPortfolioID
		}

		securityID := req.SecurityID
		if securityID == 0 {
			securityID = source.SecurityID
		}

		var target *model.Position
		if securityID == source.SecurityID {
			target = source
		} else {
			if err := s.ensureSecurity(ctx, securityID, opts...); err != nil {
				return err
			}
			target, err = s.positionRepo.GetByUserAndSecurity(ctx, user.ID, securityID, locked...)
			if err != nil {
				return storeFailure("get target position", err)
			}
		}

		lastTrade, err := s.tradeRepo.GetLast(ctx, source.ID, opts...)
		if err != nil {
			return storeFailure("get last trade", err)
		}
		if lastTrade == nil {
			return dto.ErrNothingToAmend
		}

		rolledBack, err := helper.UndoTrade(dto.StateOf(source), dto.TermsOf(lastTrade))
		if err != nil {
			return err
		}
		if err := s.positionRepo.Update(ctx, source.ID, rolledBack, opts...); err != nil {
			return storeFailure("roll back position", err)
		}

		terms := req.Terms()
		replace := dto.ReplaceTradeParam{
			Type:     terms.Type,
			Amount:   terms.Price,
			Quantity: terms.Quantity,
		}

		switch {
		case target == nil:
			if terms.Type == model.TradeTypeSell {
				return dto.ErrNoPositionToSell
			}
			created := &model.Position{
				SecurityID:      securityID,
				UserID:          user.ID,
				AverageBuyPrice: helper.RoundMoney(terms.Price),
				Quantity:        terms.Quantity,
			}
			if err := s.positionRepo.Create(ctx, created, opts...); err != nil {
				return storeFailure("create position", err)
			}
			replace.PositionID = created.ID
			result.PositionID = created.ID

		case target.ID == source.ID:
			next, err := helper.ApplyTrade(rolledBack, terms)
			if err != nil {
				return err
			}
			if err := s.positionRepo.Update(ctx, source.ID, next, opts...); err != nil {
				return storeFailure("update position", err)
			}
			replace.PositionID = source.ID
			result.PositionID = source.ID

		default:
			next, err := helper.ApplyTrade(dto.StateOf(target), terms)
			if err != nil {
				return err
			}
			if err := s.positionRepo.Update(ctx, target.ID, next, opts...); err != nil {
				return storeFailure("update target position", err)
			}
			replace.PositionID = target.ID
			result.PositionID = target.ID
		}

		if err := s.tradeRepo.ReplaceLast(ctx, lastTrade.ID, replace, opts...); err != nil {
			return storeFailure("replace trade", err)
		}
		result.TradeID = lastTrade.ID
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "Failed to amend last trade", err,
			logger.UintField("user_id", user.ID),
			logger.UintField("position_id", req.UpdatingPortfolioID),
			logger.UintField("security_id", req.SecurityID),
		)
		return nil, asTransactionError(err)
	}

	s.log.InfoContext(ctx, "Last trade amended",
		logger.UintField("user_id", user.ID),
		logger.UintField("trade_id", result.TradeID),
		logger.UintField("source_position_id", req.UpdatingPortfolioID),
		logger.UintField("target_position_id", result.PositionID),
	)
	return result, nil
}

func (s *tradeService) DeleteLastTrade(ctx context.Context, user dto.AuthUser, req dto.DeleteTradeRequest) (*dto.TradeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &dto.TradeResult{Message: dto.CodeTransactionDeleted, PositionID: req.PortfolioID}
	err := s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		position, err := s.positionRepo.GetByID(ctx, req.PortfolioID, user.ID, append(opts, utils.WithLockForUpdate())...)
		if err != nil {
			return storeFailure("get position", err)
		}
		if position == nil {
			return dto.ErrInvalidPortfolioID
		}
		if position.Quantity == 0 {
			return dto.ErrNothingToDelete
		}

		lastTrade, err := s.tradeRepo.GetLast(ctx, position.ID, opts...)
		if err != nil {
			return storeFailure("get last trade", err)
		}
		if lastTrade == nil {
			return dto.ErrNothingToDelete
		}

		rolledBack, err := helper.UndoTrade(dto.StateOf(position), dto.TermsOf(lastTrade))
		if err != nil {
			return err
		}
		if err := s.positionRepo.Update(ctx, position.ID, rolledBack, opts...); err != nil {
			return storeFailure("roll back position", err)
		}
		if err := s.tradeRepo.Remove(ctx, lastTrade.ID, opts...); err != nil {
			return storeFailure("remove trade", err)
		}

		result.TradeID = lastTrade.ID
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "Failed to delete last trade", err,
			logger.UintField("user_id", user.ID),
			logger.UintField("position_id", req.PortfolioID),
		)
		return nil, asTransactionError(err)
	}

	s.log.InfoContext(ctx, "Last trade deleted",
		logger.UintField("user_id", user.ID),
		logger.UintField("trade_id", result.TradeID),
		logger.UintField("position_id", result.PositionID),
	)
	return result, nil
}

func (s *tradeService) ensureSecurity(ctx context.Context, securityID uint, opts ...utils.DBOption) error {
	security, err := s.securityRepo.GetByID(ctx, securityID, opts...)
	if err != nil {
		return storeFailure("get security", err)
	}
	if security == nil || !security.IsActive {
		return dto.ErrSecurityNotFound
	}
	return nil
}

// checkSellable rejects a sell when there is no position or not enough quantity.
func checkSellable(position *model.Position, qty int64) error {
	if position == nil {
		return dto.ErrNoPositionToSell
	}
	if qty > position.Quantity {
		return dto.ErrInsufficientQuantity
	}
	return nil
}
