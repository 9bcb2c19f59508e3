package repository

import (
	"context"
	"errors"
	"portfolio-tracker/internal/dto"
	"portfolio-tracker/internal/model"
	"portfolio-tracker/pkg/utils"

	"gorm.io/gorm"
)

// SecurityRepository is the security catalog. The trading engine only reads
// from it; current_price is written by UpdatePrices alone.
type SecurityRepository interface {
	Get(ctx context.Context, param model.GetSecurityParam, opts ...utils.DBOption) ([]model.Security, error)
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Security, error)
	FindExistingTickers(ctx context.Context, tickers []string, opts ...utils.DBOption) ([]string, error)
	CreateBatch(ctx context.Context, securities []model.Security, opts ...utils.DBOption) error
	UpdatePrices(ctx context.Context, prices []dto.SecurityPrice, updatedBy *uint, opts ...utils.DBOption) error
}

type securityRepository struct {
	db *gorm.DB
}

func NewSecurityRepository(db *gorm.DB) SecurityRepository {
	return &securityRepository{db: db}
}

func (r *securityRepository) Get(ctx context.Context, param model.GetSecurityParam, opts ...utils.DBOption) ([]model.Security, error) {
	var securities []model.Security
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if len(param.IDs) > 0 {
		db = db.Where("id IN ?", param.IDs)
	}
	if len(param.TickerSymbols) > 0 {
		db = db.Where("ticker_symbol IN ?", param.TickerSymbols)
	}
	if param.IsActive != nil {
		db = db.Where("is_active = ?", *param.IsActive)
	}

	if err := db.Order("ticker_symbol ASC").Find(&securities).Error; err != nil {
		return nil, err
	}
	return securities, nil
}

func (r *securityRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.Security, error) {
	var security model.Security
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).First(&security, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &security, nil
}

func (r *securityRepository) FindExistingTickers(ctx context.Context, tickers []string, opts ...utils.DBOption) ([]string, error) {
	var existing []string
	if len(tickers) == 0 {
		return existing, nil
	}
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Security{}).
		Where("ticker_symbol IN ?", tickers).
		Order("ticker_symbol ASC").
		Pluck("ticker_symbol", &existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *securityRepository) CreateBatch(ctx context.Context, securities []model.Security, opts ...utils.DBOption) error {
	if len(securities) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(&securities).Error
}

func (r *securityRepository) UpdatePrices(ctx context.Context, prices []dto.SecurityPrice, updatedBy *uint, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	now := utils.TimeNow()
	for _, p := range prices {
		result := db.Model(&model.Security{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"current_price": p.CurrentPrice,
				"updated_at":    now,
				"updated_by":    updatedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return dto.ErrSecurityNotFound
		}
	}
	return nil
}
