package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/catalog"
	domain "github.com/harvesthub/backend/internal/domain/inventory"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TableInventory is announced on the change feed for stock writes
const TableInventory = "inventory_items"

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"max=500"`
}

// SetStockRequest replaces the stock level after a physical count
type SetStockRequest struct {
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	Threshold *decimal.Decimal `json:"low_stock_threshold"`
}

// ItemResponse represents a stock record in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	OutOfStock        bool            `json:"out_of_stock"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToItemResponse maps a stock record to its API representation
func ToItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		Quantity:          item.Quantity,
		LowStockThreshold: item.LowStockThreshold,
		LowStock:          item.IsLowStock(),
		OutOfStock:        item.IsOutOfStock(),
		UpdatedAt:         item.UpdatedAt,
	}
}

// Service handles stock management for the console
type Service struct {
	itemRepo     domain.Repository
	productRepo  catalog.ProductRepository
	activityRepo activity.Repository
	notifier     shared.Notifier
}

// NewService creates an inventory Service
func NewService(
	itemRepo domain.Repository,
	productRepo catalog.ProductRepository,
	activityRepo activity.Repository,
	notifier shared.Notifier,
) *Service {
	return &Service{
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
	}
}

// List returns stock records matching the filter, paginated
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ItemResponse], error) {
	result, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ItemResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = ToItemResponse(item)
	}
	mapped := shared.Paginated[ItemResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	return &mapped, nil
}

// ListLowStock returns all items at or below their alert threshold
func (s *Service) ListLowStock(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToItemResponse(item)
	}
	return responses, nil
}

// GetByProduct returns the stock record for a product, creating an
// empty one on first access.
func (s *Service) GetByProduct(ctx context.Context, productID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			return nil, err
		}
		item, err = domain.NewItem(productID, decimal.Zero, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Adjust applies a signed delta to a product's stock level
func (s *Service) Adjust(ctx context.Context, actorID, productID uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := item.Quantity
	if err := item.Adjust(req.Delta); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, item, activity.Details{
		"delta":  req.Delta.String(),
		"before": before.String(),
		"after":  item.Quantity.String(),
		"reason": req.Reason,
	})
	s.notify(ctx)

	response := ToItemResponse(item)
	return &response, nil
}

// SetStock replaces a product's stock level after a physical count
func (s *Service) SetStock(ctx context.Context, actorID, productID uuid.UUID, req SetStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	before := item.Quantity
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.Threshold != nil {
		if err := item.SetLowStockThreshold(*req.Threshold); err != nil {
			return nil, err
		}
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, item, activity.Details{
		"before": before.String(),
		"after":  item.Quantity.String(),
	})
	s.notify(ctx)

	response := ToItemResponse(item)
	return &response, nil
}

func (s *Service) recordActivity(ctx context.Context, actorID uuid.UUID, item *domain.Item, details activity.Details) {
	if s.activityRepo == nil || actorID == uuid.Nil {
		return
	}
	details["product_id"] = item.ProductID.String()
	entry, err := activity.NewLog(actorID, activity.ActionStockAdjusted, "inventory_item", item.ID, details)
	if err != nil {
		return
	}
	_ = s.activityRepo.Save(ctx, entry)
}

func (s *Service) notify(ctx context.Context) {
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, TableInventory)
	}
}
