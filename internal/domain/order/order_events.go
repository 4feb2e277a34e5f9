package order

import (
	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderRefundIssued  = "OrderRefundIssued"
)

// CreatedEvent is raised when a new order is created
type CreatedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	UserID  uuid.UUID       `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewCreatedEvent creates a new CreatedEvent
func NewCreatedEvent(o *Order) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Amount:          o.Amount,
	}
}

// EventType returns the event type name
func (e *CreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// StatusChangedEvent is raised when an order's status changes,
// including the implicit move to refunded when refunds reach the
// order amount
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	Reason  string    `json:"reason,omitempty"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(o *Order, from, to Status, reason string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		From:            from,
		To:              to,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// RefundIssuedEvent is raised when a refund is recorded against an order
type RefundIssuedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
}

// NewRefundIssuedEvent creates a new RefundIssuedEvent
func NewRefundIssuedEvent(o *Order, record RefundRecord) *RefundIssuedEvent {
	return &RefundIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefundIssued, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Amount:          record.Amount,
		Reason:          record.Reason,
		TotalRefunded:   o.Metadata.TotalRefunded,
	}
}

// EventType returns the event type name
func (e *RefundIssuedEvent) EventType() string {
	return EventTypeOrderRefundIssued
}
