package repository

import (
	"context"
	"errors"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/pkg/utils"

	"gorm.io/gorm"
)

// TradeRepository is the trade ledger. Only the last trade of a position is
// ever replaced or removed; callers find it with GetLast.
type TradeRepository interface {
	Append(ctx context.Context, trade *model.Trade, opts ...utils.DBOption) error
	GetLast(ctx context.Context, positionID uint, opts ...utils.DBOption) (*model.Trade, error)
	ReplaceLast(ctx context.Context, tradeID uint, param dto.ReplaceTradeParam, opts ...utils.DBOption) error
	Remove(ctx context.Context, tradeID uint, opts ...utils.DBOption) error
	ListForPosition(ctx context.Context, positionID uint, opts ...utils.DBOption) ([]model.Trade, error)
	ListForUser(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.TradeWithTicker, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Append(ctx context.Context, trade *model.Trade, opts ...utils.DBOption) error {
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = utils.TimeNow()
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(trade).Error
}

func (r *tradeRepository) GetLast(ctx context.Context, positionID uint, opts ...utils.DBOption) (*model.Trade, error) {
	var trade model.Trade
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("position_id = ?", positionID).
		Order("created_at DESC, id DESC").
		First(&trade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) ReplaceLast(ctx context.Context, tradeID uint, param dto.ReplaceTradeParam, opts ...utils.DBOption) error {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Trade{}).
		Where("id = ?", tradeID).
		Updates(map[string]interface{}{
			"position_id":          param.PositionID,
			"transaction_type":     param.Type,
			"transaction_amount":   param.Amount,
			"transaction_quantity": param.Quantity,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tradeRepository) Remove(ctx context.Context, tradeID uint, opts ...utils.DBOption) error {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Trade{}, tradeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tradeRepository) ListForPosition(ctx context.Context, positionID uint, opts ...utils.DBOption) ([]model.Trade, error) {
	var trades []model.Trade
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("position_id = ?", positionID).
		Order("created_at ASC, id ASC").
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// ListForUser returns every trade of the user's positions with the ticker of
// the position's security, ascending by time.
func (r *tradeRepository) ListForUser(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.TradeWithTicker, error) {
	var trades []model.TradeWithTicker
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Table("trades").
		Select("trades.*, securities.ticker_symbol").
		Joins("JOIN positions ON positions.id = trades.position_id").
		Joins("JOIN securities ON securities.id = positions.security_id").
		Where("positions.user_id = ?", userID).
		Order("trades.created_at ASC, trades.id ASC").
		Scan(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}
