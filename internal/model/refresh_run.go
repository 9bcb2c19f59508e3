package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type RefreshRunStatus string

const (
	RefreshStatusRunning   RefreshRunStatus = "running"
	RefreshStatusCompleted RefreshRunStatus = "completed"
	RefreshStatusFailed    RefreshRunStatus = "failed"
	RefreshStatusTimeout   RefreshRunStatus = "timeout"
)

const (
	RefreshExitCodeSuccess        = 200
	RefreshExitCodeSkipped        = 204
	RefreshExitCodePartialSuccess = 206
	RefreshExitCodeFailed         = 500
)

// PriceRefreshRun records one scheduled execution of the price refresh.
type PriceRefreshRun struct {
	ID            uint             `gorm:"primaryKey"`
	StartedAt     time.Time        `gorm:"not null"`
	CompletedAt   sql.NullTime
	Status        RefreshRunStatus `gorm:"type:varchar(50);not null"`
	ExitCode      sql.NullInt32
	Updated       int              `gorm:"not null;default:0"`
	FailedTickers pq.StringArray   `gorm:"type:text[]"`
	ErrorMessage  sql.NullString   `gorm:"type:text"`
	CreatedAt     time.Time        `gorm:"autoCreateTime"`
}

func (PriceRefreshRun) TableName() string {
	return "price_refresh_runs"
}
