package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository defines persistence for the payment ledger
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Transaction], error)
	Save(ctx context.Context, txn *Transaction) error
	// SumRefundedByOrder returns the absolute total of refund entries
	// recorded against an order.
	SumRefundedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}
