package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/payment"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements payment.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	var txn payment.Transaction
	if err := dbFromContext(ctx, r.db).
		First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByOrder finds all ledger entries for an order, oldest first
func (r *GormTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Transaction, error) {
	var txns []*payment.Transaction
	if err := dbFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("txn_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindAll finds ledger entries with filtering and pagination
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*payment.Transaction], error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	countQuery := r.applyFilters(db.Model(&payment.Transaction{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var txns []*payment.Transaction
	query := r.applyFilters(db.Model(&payment.Transaction{}), filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "txn_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(txns, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a ledger entry
func (r *GormTransactionRepository) Save(ctx context.Context, txn *payment.Transaction) error {
	return dbFromContext(ctx, r.db).Save(txn).Error
}

// SumRefundedByOrder returns the absolute total of refund entries
// recorded against an order. Refund amounts are stored negated.
func (r *GormTransactionRepository) SumRefundedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := dbFromContext(ctx, r.db).Model(&payment.Transaction{}).
		Where("order_id = ? AND status = ?", orderID, payment.TransactionStatusRefunded).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Neg(), nil
}

func (r *GormTransactionRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("txn_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("txn_at <= ?", t)
			}
		}
	}
	return query
}
