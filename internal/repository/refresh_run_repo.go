package repository

import (
	"context"
	"time"

	"portfolio-tracker/internal/model"
	"portfolio-tracker/pkg/utils"

	"gorm.io/gorm"
)

type RefreshRunRepository interface {
	Create(ctx context.Context, run *model.PriceRefreshRun, opts ...utils.DBOption) error
	Update(ctx context.Context, run *model.PriceRefreshRun, opts ...utils.DBOption) error
	ListRecent(ctx context.Context, limit int, opts ...utils.DBOption) ([]model.PriceRefreshRun, error)
	DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type refreshRunRepository struct {
	db *gorm.DB
}

func NewRefreshRunRepository(db *gorm.DB) RefreshRunRepository {
	return &refreshRunRepository{db: db}
}

func (r *refreshRunRepository) Create(ctx context.Context, run *model.PriceRefreshRun, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(run).Error
}

func (r *refreshRunRepository) Update(ctx context.Context, run *model.PriceRefreshRun, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(run).Error
}

func (r *refreshRunRepository) ListRecent(ctx context.Context, limit int, opts ...utils.DBOption) ([]model.PriceRefreshRun, error) {
	var runs []model.PriceRefreshRun
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *refreshRunRepository) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	result := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("started_at < ?", date).
		Delete(&model.PriceRefreshRun{})
	return result.RowsAffected, result.Error
}
