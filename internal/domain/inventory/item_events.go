package inventory

import (
	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeInventoryItem = "InventoryItem"

	EventTypeStockAdjusted = "inventory.stock.adjusted"
)

// StockAdjustedEvent is raised whenever an item's stock level changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *Item, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID),
		ProductID:       item.ProductID,
		Delta:           delta,
		Quantity:        item.Quantity,
	}
}

// EventType returns the event type identifier
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}
