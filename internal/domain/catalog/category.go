package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/harvesthub/backend/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Category groups products for storefront navigation
type Category struct {
	shared.BaseAggregateRoot
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:varchar(500)" json:"image_url"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
	Active      bool   `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

// Slugify converts a display name into a URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NewCategory creates a new active category. An empty slug is derived
// from the name.
func NewCategory(name, slug string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Category slug must be lowercase letters, digits and hyphens")
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Name:              strings.TrimSpace(name),
		Active:            true,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's display information
func (c *Category) Update(name, description, imageURL string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.ImageURL = imageURL
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// SetSortOrder changes the category's position in navigation
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
}

// Activate makes the category visible
func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}

// Deactivate hides the category from navigation
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
