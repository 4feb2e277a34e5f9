package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid checks if the status is a known ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusArchived:
		return true
	}
	return false
}

// ImageList stores product image URLs as a JSONB array
type ImageList []string

// Value implements driver.Valuer for JSONB storage
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ImageList", value)
	}
	return json.Unmarshal(data, l)
}

// Product represents a grocery item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"sku"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Unit        string          `gorm:"type:varchar(20);not null" json:"unit"` // e.g. "kg", "pcs", "dozen"
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"sale_price"`
	Images      ImageList       `gorm:"type:jsonb" json:"images"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if strings.TrimSpace(unit) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot be empty")
	}
	return nil
}

// NewProduct creates a new active product
func NewProduct(sku, name, unit string, price valueobject.Money) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              strings.TrimSpace(name),
		Unit:              unit,
		Price:             price.Amount(),
		SalePrice:         decimal.Zero,
		Images:            ImageList{},
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, unit string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Unit = unit
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrices updates the regular and sale price. A zero sale price
// clears the discount; a non-zero sale price must stay below the
// regular price.
func (p *Product) SetPrices(price, salePrice decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if salePrice.IsPositive() && salePrice.GreaterThanOrEqual(price) {
		return shared.NewDomainError("INVALID_PRICE", "Sale price must be below the regular price")
	}

	p.Price = price
	p.SalePrice = salePrice
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// EffectivePrice returns the sale price when a discount is active,
// otherwise the regular price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.Price
}

// IsOnSale returns true if a discount is active
func (p *Product) IsOnSale() bool {
	return p.SalePrice.IsPositive()
}

// AssignCategory moves the product into a category
func (p *Product) AssignCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID is required")
	}
	p.CategoryID = &categoryID
	p.UpdatedAt = time.Now()
	return nil
}

// ClearCategory removes the product from its category
func (p *Product) ClearCategory() {
	p.CategoryID = nil
	p.UpdatedAt = time.Now()
}

// AddImage appends an image URL to the product gallery
func (p *Product) AddImage(url string) error {
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	for _, existing := range p.Images {
		if existing == url {
			return shared.NewDomainError("DUPLICATE_IMAGE", "Image is already attached to the product")
		}
	}
	p.Images = append(p.Images, url)
	p.UpdatedAt = time.Now()
	return nil
}

// RemoveImage deletes an image URL from the product gallery
func (p *Product) RemoveImage(url string) error {
	for i, existing := range p.Images {
		if existing == url {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("IMAGE_NOT_FOUND", "Image is not attached to the product")
}

// SetFeatured toggles the storefront featured flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
}

// Activate makes the product visible in the storefront
func (p *Product) Activate() error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived products cannot be activated")
	}
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// Archive retires the product permanently
func (p *Product) Archive() {
	p.Status = ProductStatusArchived
	p.UpdatedAt = time.Now()
}

// IsActive returns true for storefront-visible products
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
