package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// Repository defines persistence for customer profiles
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Profile], error)
	Save(ctx context.Context, profile *Profile) error
	Count(ctx context.Context) (int64, error)
}
