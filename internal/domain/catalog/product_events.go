package catalog

import (
	"github.com/harvesthub/backend/internal/domain/shared"
)

const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "Category"

	EventTypeProductCreated  = "catalog.product.created"
	EventTypeProductUpdated  = "catalog.product.updated"
	EventTypeCategoryCreated = "catalog.category.created"
	EventTypeCategoryUpdated = "catalog.category.updated"
)

// ProductCreatedEvent is raised when a product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
		Name:            p.Name,
	}
}

// EventType returns the event type identifier
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductUpdatedEvent is raised when product details or prices change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID),
		SKU:             p.SKU,
	}
}

// EventType returns the event type identifier
func (e *ProductUpdatedEvent) EventType() string {
	return EventTypeProductUpdated
}

// CategoryCreatedEvent is raised when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewCategoryCreatedEvent creates a CategoryCreatedEvent
func NewCategoryCreatedEvent(c *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, c.ID),
		Slug:            c.Slug,
		Name:            c.Name,
	}
}

// EventType returns the event type identifier
func (e *CategoryCreatedEvent) EventType() string {
	return EventTypeCategoryCreated
}

// CategoryUpdatedEvent is raised when category details change
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
}

// NewCategoryUpdatedEvent creates a CategoryUpdatedEvent
func NewCategoryUpdatedEvent(c *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, c.ID),
		Slug:            c.Slug,
	}
}

// EventType returns the event type identifier
func (e *CategoryUpdatedEvent) EventType() string {
	return EventTypeCategoryUpdated
}
