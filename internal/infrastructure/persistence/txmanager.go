package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTxManager runs a function inside a single gorm transaction.
// The transaction handle travels in the context, so repositories
// constructed from the same Database join it transparently via
// dbFromContext.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager backed by the given connection
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do executes fn within a transaction. Any error rolls everything back.
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Already inside a transaction: just run fn with the same context
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// dbFromContext returns the ambient transaction if one is running,
// falling back to the repository's own connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
