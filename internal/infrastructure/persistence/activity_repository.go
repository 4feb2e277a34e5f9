package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindAll finds activity logs with filtering and pagination
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*activity.Log], error) {
	query := r.applyFilters(dbFromContext(ctx, r.db).Model(&activity.Log{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ActivitySortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var logs []*activity.Log
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(logs, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByEntity finds logs recorded against an entity, newest first
func (r *GormActivityRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*activity.Log, error) {
	var logs []*activity.Log
	if err := dbFromContext(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByActor finds logs recorded by an actor
func (r *GormActivityRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*activity.Log], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["actor_id"] = actorID
	return r.FindAll(ctx, filter)
}

// Save appends a log entry
func (r *GormActivityRepository) Save(ctx context.Context, log *activity.Log) error {
	return dbFromContext(ctx, r.db).Create(log).Error
}

func (r *GormActivityRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}
	return query
}
