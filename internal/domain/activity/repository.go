package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// Repository defines persistence for activity logs
type Repository interface {
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Log], error)
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Log, error)
	FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Log], error)
	Save(ctx context.Context, log *Log) error
}
