package activity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// Actions recorded by the console
const (
	ActionOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	ActionOrderRefundIssued  = "ORDER_REFUND_ISSUED"
	ActionProductCreated     = "PRODUCT_CREATED"
	ActionProductUpdated     = "PRODUCT_UPDATED"
	ActionProductDeleted     = "PRODUCT_DELETED"
	ActionStockAdjusted      = "STOCK_ADJUSTED"
	ActionCategoryCreated    = "CATEGORY_CREATED"
	ActionCategoryUpdated    = "CATEGORY_UPDATED"
)

// Details holds the structured payload of a log entry
type Details map[string]any

// Value implements driver.Valuer for JSONB storage
func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB storage
func (d *Details) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Details", value)
	}
	return json.Unmarshal(data, d)
}

// Log is an immutable audit record of an operator action
type Log struct {
	shared.BaseEntity
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Details    Details   `gorm:"type:jsonb" json:"details,omitempty"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "activity_logs"
}

// NewLog creates an audit record
func NewLog(actorID uuid.UUID, action, entityType string, entityID uuid.UUID, details Details) (*Log, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID is required")
	}
	if strings.TrimSpace(action) == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action is required")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity ID is required")
	}

	return &Log{
		BaseEntity: shared.NewBaseEntity(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}, nil
}
