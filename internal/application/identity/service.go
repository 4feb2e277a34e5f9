package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/identity"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// TokenPair is an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// TokenService issues and refreshes console session tokens
type TokenService interface {
	GeneratePair(userID uuid.UUID, email string) (*TokenPair, error)
	RefreshPair(refreshToken string) (*TokenPair, uuid.UUID, error)
}

// LoginRequest represents a console login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest represents creating a console account
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=200"`
}

// UserResponse represents a console account in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse bundles the session tokens with the account
type LoginResponse struct {
	Tokens TokenPair    `json:"tokens"`
	User   UserResponse `json:"user"`
}

// ToUserResponse maps an account to its API representation
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
	}
}

// errInvalidCredentials is returned for every failed login so the
// response does not reveal whether the account exists.
var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles console authentication
type AuthService struct {
	userRepo domain.Repository
	tokens   TokenService
	now      func() time.Time
}

// NewAuthService creates an AuthService
func NewAuthService(userRepo domain.Repository, tokens TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login verifies credentials and issues a session token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.CanLogin(now) {
		if user.IsLocked(now) {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, errInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordFailedLogin(now)
		_ = s.userRepo.Save(ctx, user)
		return nil, errInvalidCredentials
	}

	user.RecordLogin(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Tokens: *pair,
		User:   ToUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	pair, userID, err := s.tokens.RefreshPair(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	if !user.CanLogin(s.now()) {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account can no longer sign in")
	}

	return pair, nil
}

// CreateUser provisions a new console account
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := domain.NewUser(req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}
