package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item tracks on-hand stock for a single product
type Item struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	Quantity          decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"quantity"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"low_stock_threshold"`
	Location          string          `gorm:"type:varchar(100)" json:"location"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "inventory_items"
}

// NewItem creates a stock record for a product
func NewItem(productID uuid.UUID, quantity, lowStockThreshold decimal.Decimal) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial stock quantity cannot be negative")
	}
	if lowStockThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
	}

	item.AddDomainEvent(NewStockAdjustedEvent(item, quantity))

	return item, nil
}

// Adjust applies a signed delta to the stock level. The resulting
// quantity may not go negative.
func (i *Item) Adjust(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	next := i.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}

	i.Quantity = next
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewStockAdjustedEvent(i, delta))

	return nil
}

// SetQuantity replaces the stock level after a physical count
func (i *Item) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	delta := quantity.Sub(i.Quantity)
	i.Quantity = quantity
	i.UpdatedAt = time.Now()

	if !delta.IsZero() {
		i.AddDomainEvent(NewStockAdjustedEvent(i, delta))
	}

	return nil
}

// Deduct removes stock for a fulfilled order line
func (i *Item) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	return i.Adjust(quantity.Neg())
}

// Restock adds stock from a supplier delivery or a return
func (i *Item) Restock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	return i.Adjust(quantity)
}

// SetLowStockThreshold changes the alert threshold
func (i *Item) SetLowStockThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	i.LowStockThreshold = threshold
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock returns true when stock is at or below the threshold
func (i *Item) IsLowStock() bool {
	return i.LowStockThreshold.IsPositive() && i.Quantity.LessThanOrEqual(i.LowStockThreshold)
}

// IsOutOfStock returns true when no stock remains
func (i *Item) IsOutOfStock() bool {
	return !i.Quantity.IsPositive()
}
