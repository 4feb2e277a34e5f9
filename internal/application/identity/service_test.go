package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/identity"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockTokenService is a mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GeneratePair(userID uuid.UUID, email string) (*TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenService) RefreshPair(refreshToken string) (*TokenPair, uuid.UUID, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, uuid.Nil, args.Error(2)
	}
	return args.Get(0).(*TokenPair), args.Get(1).(uuid.UUID), args.Error(2)
}

func newTestUser(t *testing.T) *domain.User {
	u, err := domain.NewUser("ops@example.com", "s3cret-pass", "Ops")
	require.NoError(t, err)
	return u
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenService)
		svc := NewAuthService(userRepo, tokens)

		u := newTestUser(t)
		userRepo.On("FindByEmail", mock.Anything, "ops@example.com").Return(u, nil)
		userRepo.On("Save", mock.Anything, u).Return(nil)
		tokens.On("GeneratePair", u.ID, u.Email).Return(&TokenPair{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
		}, nil)

		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ops@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)

		assert.Equal(t, "access", resp.Tokens.AccessToken)
		assert.Equal(t, u.ID, resp.User.ID)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("unknown email gets the generic error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, new(MockTokenService))

		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever1",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("wrong password counts a failed attempt", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, new(MockTokenService))

		u := newTestUser(t)
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(u, nil)
		userRepo.On("Save", mock.Anything, u).Return(nil)

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ops@example.com",
			Password: "wrong-pass",
		})
		require.Error(t, err)
		assert.Equal(t, 1, u.FailedAttempts)
	})

	t.Run("locked account is rejected before password check", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, new(MockTokenService))

		u := newTestUser(t)
		now := time.Now()
		for i := 0; i < 5; i++ {
			u.RecordFailedLogin(now)
		}
		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(u, nil)

		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ops@example.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("refreshes for an active account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenService)
		svc := NewAuthService(userRepo, tokens)

		u := newTestUser(t)
		tokens.On("RefreshPair", "refresh-token").Return(&TokenPair{AccessToken: "new"}, u.ID, nil)
		userRepo.On("FindByID", mock.Anything, u.ID).Return(u, nil)

		pair, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "refresh-token"})
		require.NoError(t, err)
		assert.Equal(t, "new", pair.AccessToken)
	})

	t.Run("disabled account cannot refresh", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenService)
		svc := NewAuthService(userRepo, tokens)

		u := newTestUser(t)
		u.Disable()
		tokens.On("RefreshPair", "refresh-token").Return(&TokenPair{}, u.ID, nil)
		userRepo.On("FindByID", mock.Anything, u.ID).Return(u, nil)

		_, err := svc.Refresh(context.Background(), RefreshRequest{RefreshToken: "refresh-token"})
		require.Error(t, err)
	})
}

func TestAuthService_CreateUser(t *testing.T) {
	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, new(MockTokenService))

		u := newTestUser(t)
		userRepo.On("FindByEmail", mock.Anything, "ops@example.com").Return(u, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserRequest{
			Email:    "ops@example.com",
			Password: "another-pass",
		})
		require.Error(t, err)
	})

	t.Run("creates and persists the account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewAuthService(userRepo, new(MockTokenService))

		userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateUser(context.Background(), CreateUserRequest{
			Email:       "new@example.com",
			Password:    "fresh-pass-1",
			DisplayName: "New Operator",
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", resp.Email)
		userRepo.AssertExpectations(t)
	})
}
