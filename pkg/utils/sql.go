package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBOption decorates the query a repository method is about to run. Options
// are applied in order, so WithTx must come first when combined.
type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// WithTx swaps the base handle for the transaction opened by the unit of work.
func WithTx(tx *gorm.DB) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		if tx == nil {
			return db
		}
		if ctx := db.Statement.Context; ctx != nil {
			return tx.WithContext(ctx)
		}
		return tx
	}
}

// WithLockForUpdate adds SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func WithLockForUpdate() DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
