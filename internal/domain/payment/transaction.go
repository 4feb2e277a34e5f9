package payment

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// IsValid checks if the status is a known TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusPaid,
		TransactionStatusFailed, TransactionStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// GatewayResponse holds the raw payload recorded against a transaction.
// For refunds it carries the operator reason and the refund timestamp.
type GatewayResponse map[string]any

// Value implements driver.Valuer for JSONB storage
func (g GatewayResponse) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB storage
func (g *GatewayResponse) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into GatewayResponse", value)
	}
	return json.Unmarshal(data, g)
}

// Transaction is a single immutable row in the payment ledger.
// Charges carry a positive amount; refunds carry a negative amount
// so that summing a user's rows yields their net spend.
type Transaction struct {
	shared.BaseEntity
	OrderID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Method          string            `gorm:"type:varchar(50);not null" json:"method"`
	GatewayResponse GatewayResponse   `gorm:"type:jsonb" json:"gateway_response,omitempty"`
	TxnAt           time.Time         `gorm:"not null;index" json:"txn_at"`
}

// TableName returns the database table name
func (Transaction) TableName() string {
	return "transactions"
}

// NewCharge creates a positive ledger entry for an order payment.
func NewCharge(orderID, userID uuid.UUID, amount decimal.Decimal, method string) (*Transaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Charge amount must be positive")
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is required")
	}

	return &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		UserID:     userID,
		Amount:     amount,
		Status:     TransactionStatusPaid,
		Method:     method,
		TxnAt:      time.Now(),
	}, nil
}

// NewRefund creates a negative ledger entry for a refund. The stored
// amount is the negation of the refunded value, and the gateway
// response records the operator reason and timestamp.
func NewRefund(orderID, userID uuid.UUID, amount decimal.Decimal, method, reason string) (*Transaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "A reason is required when issuing a refund")
	}

	now := time.Now()
	return &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		UserID:     userID,
		Amount:     amount.Neg(),
		Status:     TransactionStatusRefunded,
		Method:     method,
		GatewayResponse: GatewayResponse{
			"reason":      reason,
			"refunded_at": now.Format(time.RFC3339),
		},
		TxnAt: now,
	}, nil
}

// IsRefund returns true for negative ledger entries
func (t *Transaction) IsRefund() bool {
	return t.Amount.IsNegative()
}

// AbsoluteAmount returns the magnitude of the transaction amount
func (t *Transaction) AbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// RefundReason returns the reason stored on a refund entry, if any
func (t *Transaction) RefundReason() string {
	if t.GatewayResponse == nil {
		return ""
	}
	if reason, ok := t.GatewayResponse["reason"].(string); ok {
		return reason
	}
	return ""
}
