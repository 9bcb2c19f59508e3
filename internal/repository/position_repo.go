package repository

import (
	"context"
	"errors"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/pkg/utils"

	"gorm.io/gorm"
)

// PositionRepository is the position store. Lookups are always scoped by the
// owning user; a position owned by someone else is reported as not found (nil).
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
	Update(ctx context.Context, id uint, state dto.PositionState, opts ...utils.DBOption) error
	GetByID(ctx context.Context, id, userID uint, opts ...utils.DBOption) (*model.Position, error)
	GetByUserAndSecurity(ctx context.Context, userID, securityID uint, opts ...utils.DBOption) (*model.Position, error)
	GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.Position, error)
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{
		db: db,
	}
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(position).Error
}

// Update writes quantity and average price. Map form so a zero quantity or
// price is persisted instead of being skipped by gorm.
func (r *positionRepository) Update(ctx context.Context, id uint, state dto.PositionState, opts ...utils.DBOption) error {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Position{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":          state.Quantity,
			"average_buy_price": state.AveragePrice,
			"updated_at":        utils.TimeNow(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *positionRepository) first(db *gorm.DB) (*model.Position, error) {
	var position model.Position
	if err := db.First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) GetByID(ctx context.Context, id, userID uint, opts ...utils.DBOption) (*model.Position, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("id = ? AND user_id = ?", id, userID)
	return r.first(db)
}

func (r *positionRepository) GetByUserAndSecurity(ctx context.Context, userID, securityID uint, opts ...utils.DBOption) (*model.Position, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("user_id = ? AND security_id = ?", userID, securityID)
	return r.first(db)
}

func (r *positionRepository) GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.Position, error) {
	var positions []model.Position
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Preload("Security").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}
