package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusChangeRecord captures a single status transition.
// Records are appended to the metadata change list and never
// mutated or removed.
type StatusChangeRecord struct {
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RefundRecord captures a single refund against an order.
// The running sum of refund amounts never exceeds the order amount.
type RefundRecord struct {
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Timestamp time.Time       `json:"timestamp"`
}

// Metadata is the order's bookkeeping structure, stored as JSONB.
// Unlike the loose object it replaces, every field is explicit so
// invalid shapes fail at decode time rather than deep in a handler.
type Metadata struct {
	// StatusHistory records when the order most recently entered each status
	StatusHistory map[Status]time.Time `json:"status_history,omitempty"`
	// StatusChanges is the append-only transition audit trail
	StatusChanges []StatusChangeRecord `json:"status_changes,omitempty"`
	// RefundHistory is the append-only refund ledger
	RefundHistory []RefundRecord `json:"refund_history,omitempty"`
	// CancellationReason is set when the order leaves via cancellation
	CancellationReason string `json:"cancellation_reason,omitempty"`
	// TotalRefunded is the cumulative refunded amount
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	// Order-level charges captured at checkout
	Tax            decimal.Decimal `json:"tax,omitempty"`
	ShippingCharge decimal.Decimal `json:"shipping_charge,omitempty"`
	Discount       decimal.Decimal `json:"discount,omitempty"`
}

// NewMetadata returns empty metadata with initialized collections
func NewMetadata() Metadata {
	return Metadata{
		StatusHistory: make(map[Status]time.Time),
		StatusChanges: make([]StatusChangeRecord, 0),
		RefundHistory: make([]RefundRecord, 0),
		TotalRefunded: decimal.Zero,
	}
}

// recordTransition stamps the status history and appends a change record
func (m *Metadata) recordTransition(from, to Status, reason string, at time.Time) {
	if m.StatusHistory == nil {
		m.StatusHistory = make(map[Status]time.Time)
	}
	m.StatusHistory[to] = at
	m.StatusChanges = append(m.StatusChanges, StatusChangeRecord{
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: at,
	})
}

// recordRefund appends a refund record and advances the cumulative total
func (m *Metadata) recordRefund(amount decimal.Decimal, reason string, at time.Time) RefundRecord {
	record := RefundRecord{
		Amount:    amount,
		Reason:    reason,
		Timestamp: at,
	}
	m.RefundHistory = append(m.RefundHistory, record)
	m.TotalRefunded = m.TotalRefunded.Add(amount)
	return record
}

// Value implements driver.Valuer for JSONB storage
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = NewMetadata()
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Metadata: %T", value)
	}
	return json.Unmarshal(data, m)
}
