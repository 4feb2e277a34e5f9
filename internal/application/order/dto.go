package order

import (
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to place an order
type CreateOrderRequest struct {
	UserID          uuid.UUID                `json:"user_id" binding:"required"`
	Amount          decimal.Decimal          `json:"amount" binding:"required"`
	ShippingAddress valueobject.Address      `json:"shipping_address" binding:"required"`
	PaymentMethod   string                   `json:"payment_method" binding:"required,max=50"`
	DeliverySlot    string                   `json:"delivery_slot" binding:"max=100"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest represents a line item in a new order
type CreateOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Qty       decimal.Decimal `json:"qty" binding:"required"`
}

// ChangeStatusRequest represents a request to move an order to a new
// status. Override bypasses the forward-only workflow and allows any
// target status.
type ChangeStatusRequest struct {
	Status   string `json:"status" binding:"required,order_status"`
	Reason   string `json:"reason" binding:"max=500"`
	Override bool   `json:"override"`
}

// RefundRequest represents a request to refund part of an order
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,min=1,max=500"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// StatusChangeResponse represents one audit trail entry
type StatusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RefundResponse represents one refund ledger entry
type RefundResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Timestamp time.Time       `json:"timestamp"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID              `json:"id"`
	UserID             uuid.UUID              `json:"user_id"`
	Amount             decimal.Decimal        `json:"amount"`
	Status             string                 `json:"status"`
	PaymentMethod      string                 `json:"payment_method"`
	DeliverySlot       string                 `json:"delivery_slot,omitempty"`
	ShippingAddress    valueobject.Address    `json:"shipping_address"`
	Items              []OrderItemResponse    `json:"items"`
	TotalRefunded      decimal.Decimal        `json:"total_refunded"`
	RefundableBalance  decimal.Decimal        `json:"refundable_balance"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	StatusChanges      []StatusChangeResponse `json:"status_changes"`
	Refunds            []RefundResponse       `json:"refunds"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Version            int                    `json:"version"`
}

// OrderListResponse represents an order row in list views
type OrderListResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its API representation
func ToOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}

	changes := make([]StatusChangeResponse, len(o.Metadata.StatusChanges))
	for i, c := range o.Metadata.StatusChanges {
		changes[i] = StatusChangeResponse{
			From:      string(c.From),
			To:        string(c.To),
			Reason:    c.Reason,
			Timestamp: c.Timestamp,
		}
	}

	refunds := make([]RefundResponse, len(o.Metadata.RefundHistory))
	for i, r := range o.Metadata.RefundHistory {
		refunds[i] = RefundResponse{
			Amount:    r.Amount,
			Reason:    r.Reason,
			Timestamp: r.Timestamp,
		}
	}

	return OrderResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		Amount:             o.Amount,
		Status:             string(o.Status),
		PaymentMethod:      o.PaymentMethod,
		DeliverySlot:       o.DeliverySlot,
		ShippingAddress:    o.ShippingAddress,
		Items:              items,
		TotalRefunded:      o.TotalRefunded(),
		RefundableBalance:  o.RefundableBalance(),
		CancellationReason: o.Metadata.CancellationReason,
		StatusChanges:      changes,
		Refunds:            refunds,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Version:            o.Version,
	}
}

// ToOrderListResponse maps an order to its list row representation
func ToOrderListResponse(o *domain.Order) OrderListResponse {
	return OrderListResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Amount:        o.Amount,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		ItemCount:     o.ItemCount(),
		TotalRefunded: o.TotalRefunded(),
		CreatedAt:     o.CreatedAt,
	}
}
