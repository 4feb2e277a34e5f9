package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Item represents a line item in an order. It carries a snapshot of
// the product (name, SKU) as it was at purchase time.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductSKU  string          `gorm:"type:varchar(50);not null"`
	Qty         decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Variant     string          `gorm:"type:jsonb"` // variant attributes, e.g. {"size":"1kg"}
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates a new order item
func NewItem(orderID, productID uuid.UUID, productName, productSKU string, qty decimal.Decimal, unitPrice valueobject.Money) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		ProductSKU:  productSKU,
		Qty:         qty,
		UnitPrice:   unitPrice.Amount(),
		CreatedAt:   time.Now(),
	}, nil
}

// Subtotal returns qty * unit price for the item
func (i *Item) Subtotal() decimal.Decimal {
	return i.Qty.Mul(i.UnitPrice)
}

// Order represents a customer purchase. It is the aggregate root for
// the status workflow and the refund ledger; status and metadata are
// mutated only through ChangeStatus and IssueRefund.
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status          Status              `gorm:"type:varchar(30);not null;default:'pending';index"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb;not null"`
	PaymentMethod   string              `gorm:"type:varchar(50)"`
	DeliverySlot    string              `gorm:"type:varchar(100)"`
	Metadata        Metadata            `gorm:"type:jsonb"`
	Items           []Item              `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// New creates a new order in pending status
func New(userID uuid.UUID, amount valueobject.Money, shippingAddress valueobject.Address, paymentMethod string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amount must be positive")
	}
	if shippingAddress.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Amount:            amount.Amount(),
		Status:            StatusPending,
		ShippingAddress:   shippingAddress,
		PaymentMethod:     paymentMethod,
		Metadata:          NewMetadata(),
		Items:             make([]Item, 0),
	}
	o.Metadata.StatusHistory[StatusPending] = o.CreatedAt

	o.AddDomainEvent(NewCreatedEvent(o))

	return o, nil
}

// AddItem adds a line item to the order
func (o *Order) AddItem(productID uuid.UUID, productName, productSKU string, qty decimal.Decimal, unitPrice valueobject.Money) (*Item, error) {
	item, err := NewItem(o.ID, productID, productName, productSKU, qty, unitPrice)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	return item, nil
}

// ChangeStatus moves the order to target under the given transition
// policy, recording the transition in the metadata audit trail.
// A non-empty reason is mandatory when the target is cancelled.
func (o *Order) ChangeStatus(target Status, reason string, policy TransitionPolicy) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid status: %s", target))
	}
	if target == o.Status {
		return shared.NewDomainError("SAME_STATUS", "Order is already in the requested status")
	}
	reason = strings.TrimSpace(reason)
	if target == StatusCancelled && reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A reason is required when cancelling an order")
	}
	if !o.Status.CanTransitionTo(target, policy) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.Metadata.recordTransition(from, target, reason, now)
	if target == StatusCancelled {
		o.Metadata.CancellationReason = reason
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewStatusChangedEvent(o, from, target, reason))

	return nil
}

// RefundableBalance returns the order amount minus cumulative refunds
func (o *Order) RefundableBalance() decimal.Decimal {
	return o.Amount.Sub(o.Metadata.TotalRefunded)
}

// TotalRefunded returns the cumulative refunded amount
func (o *Order) TotalRefunded() decimal.Decimal {
	return o.Metadata.TotalRefunded
}

// IssueRefund records a refund against the order. The amount must be
// positive and within the refundable balance, and the reason must be
// non-empty. When cumulative refunds reach the order amount the order
// moves to refunded (exactly once, on the refund that hits the
// threshold); otherwise the status is unchanged.
func (o *Order) IssueRefund(amount decimal.Decimal, reason string) (*RefundRecord, error) {
	reason = strings.TrimSpace(reason)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_REFUND_AMOUNT", "Refund amount must be positive")
	}
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "A reason is required when issuing a refund")
	}
	balance := o.RefundableBalance()
	if amount.GreaterThan(balance) {
		return nil, shared.NewDomainError("REFUND_EXCEEDS_BALANCE",
			fmt.Sprintf("Refund amount cannot exceed %s", balance.StringFixed(2)))
	}

	now := time.Now()
	record := o.Metadata.recordRefund(amount, reason, now)

	if o.Metadata.TotalRefunded.GreaterThanOrEqual(o.Amount) && o.Status != StatusRefunded {
		from := o.Status
		o.Status = StatusRefunded
		if o.Metadata.StatusHistory == nil {
			o.Metadata.StatusHistory = make(map[Status]time.Time)
		}
		o.Metadata.StatusHistory[StatusRefunded] = now
		o.AddDomainEvent(NewStatusChangedEvent(o, from, StatusRefunded, reason))
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewRefundIssuedEvent(o, record))

	return &record, nil
}

// CanRefund returns true if further refunds may be issued
func (o *Order) CanRefund() bool {
	return o.Status != StatusCancelled && o.Status != StatusRefunded && o.RefundableBalance().IsPositive()
}

// IsFullyRefunded returns true if cumulative refunds cover the order amount
func (o *Order) IsFullyRefunded() bool {
	return o.Metadata.TotalRefunded.GreaterThanOrEqual(o.Amount)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// ItemsSubtotal returns the sum of all item subtotals
func (o *Order) ItemsSubtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// GetAmountMoney returns the order amount as Money
func (o *Order) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Amount)
}
