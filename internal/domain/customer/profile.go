package customer

import (
	"strings"
	"time"

	"github.com/harvesthub/backend/internal/domain/shared"
)

// ProfileRole separates storefront customers from console operators
type ProfileRole string

const (
	RoleCustomer ProfileRole = "customer"
	RoleAdmin    ProfileRole = "admin"
)

// IsValid checks if the role is a known ProfileRole
func (r ProfileRole) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Profile represents a registered user of the storefront
type Profile struct {
	shared.BaseAggregateRoot
	FullName  string      `gorm:"type:varchar(200);not null" json:"full_name"`
	Email     string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone     string      `gorm:"type:varchar(30)" json:"phone"`
	AvatarURL string      `gorm:"type:varchar(500)" json:"avatar_url"`
	Role      ProfileRole `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a customer profile
func NewProfile(fullName, email string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}

	return &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Email:             email,
		Role:              RoleCustomer,
	}, nil
}

// Update updates the profile's contact details
func (p *Profile) Update(fullName, phone, avatarURL string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}

	p.FullName = fullName
	p.Phone = phone
	p.AvatarURL = avatarURL
	p.UpdatedAt = time.Now()

	return nil
}

// PromoteToAdmin grants console access
func (p *Profile) PromoteToAdmin() {
	p.Role = RoleAdmin
	p.UpdatedAt = time.Now()
}

// IsAdmin returns true for console operators
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsNew returns true when the profile was created within the window
// ending at now. The console uses a seven day window.
func (p *Profile) IsNew(now time.Time, window time.Duration) bool {
	return now.Sub(p.CreatedAt) <= window
}
