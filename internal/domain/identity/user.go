package identity

import (
	"strings"
	"time"

	"github.com/harvesthub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the state of a console account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Password cost for bcrypt
const bcryptCost = 12

const maxFailedAttempts = 5

// User represents a console operator account
type User struct {
	shared.BaseAggregateRoot
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash   string     `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName    string     `gorm:"type:varchar(200)" json:"display_name"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "admin_users"
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewUser creates an active console account
func NewUser(email, password, displayName string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		DisplayName:       strings.TrimSpace(displayName),
		Status:            UserStatusActive,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()

	return nil
}

// RecordLogin resets the failure counter and stamps the login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = at
}

// RecordFailedLogin increments the failure counter and locks the
// account for fifteen minutes once the limit is reached.
func (u *User) RecordFailedLogin(at time.Time) {
	u.FailedAttempts++
	if u.FailedAttempts >= maxFailedAttempts {
		until := at.Add(15 * time.Minute)
		u.LockedUntil = &until
	}
	u.UpdatedAt = at
}

// IsLocked returns true while a lockout is in effect
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin returns true for active, unlocked accounts
func (u *User) CanLogin(now time.Time) bool {
	return u.Status == UserStatusActive && !u.IsLocked(now)
}

// Disable deactivates the account
func (u *User) Disable() {
	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
}

// Enable reactivates the account
func (u *User) Enable() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
}
