package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/customer"
	"github.com/harvesthub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProfileRepository implements customer.Repository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Profile, error) {
	var profile customer.Profile
	if err := dbFromContext(ctx, r.db).
		First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email, case-insensitively
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*customer.Profile, error) {
	var profile customer.Profile
	if err := dbFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll finds profiles with filtering and pagination
func (r *GormProfileRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*customer.Profile], error) {
	query := dbFromContext(ctx, r.db).Model(&customer.Profile{})

	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ProfileSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var profiles []*customer.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(profiles, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, profile *customer.Profile) error {
	return dbFromContext(ctx, r.db).Save(profile).Error
}

// Count counts all profiles
func (r *GormProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&customer.Profile{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
