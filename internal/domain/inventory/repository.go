package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// Repository defines persistence for inventory items
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Item], error)
	FindLowStock(ctx context.Context) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	SaveWithLock(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
