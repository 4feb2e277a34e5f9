package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/inventory"
	"github.com/harvesthub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.Repository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := dbFromContext(ctx, r.db).
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProduct finds the inventory record for a product
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := dbFromContext(ctx, r.db).
		Where("product_id = ?", productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds inventory items with filtering and pagination
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Item], error) {
	query := dbFromContext(ctx, r.db).Model(&inventory.Item{})

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location":
			query = query.Where("location = ?", value)
		case "low_stock":
			if v, ok := value.(bool); ok && v {
				query = query.Where("low_stock_threshold > 0 AND quantity <= low_stock_threshold")
			}
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, InventorySortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var items []*inventory.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindLowStock returns items at or below their low stock threshold
func (r *GormInventoryRepository) FindLowStock(ctx context.Context) ([]*inventory.Item, error) {
	var items []*inventory.Item
	if err := dbFromContext(ctx, r.db).
		Where("low_stock_threshold > 0 AND quantity <= low_stock_threshold").
		Order("quantity ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryRepository) Save(ctx context.Context, item *inventory.Item) error {
	return dbFromContext(ctx, r.db).Save(item).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInventoryRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&inventory.Item{}).
			Where("id = ?", item.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != item.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The inventory record has been modified by another user")
		}

		item.Version++
		item.UpdatedAt = time.Now()

		result := tx.Model(&inventory.Item{}).
			Where("id = ? AND version = ?", item.ID, currentVersion).
			Updates(map[string]interface{}{
				"quantity":            item.Quantity,
				"low_stock_threshold": item.LowStockThreshold,
				"location":            item.Location,
				"version":             item.Version,
				"updated_at":          item.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The inventory record has been modified by another user")
		}
		return nil
	})
}

// Delete removes an inventory item row
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&inventory.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
