package customer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/customer"
	"github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileRepository is a mock implementation of customer.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*domain.Profile], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*domain.Profile]), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllRaw(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func newProfile(t *testing.T, name, email string, createdAt time.Time) *domain.Profile {
	p, err := domain.NewProfile(name, email)
	require.NoError(t, err)
	p.CreatedAt = createdAt
	return p
}

func newOrderFor(t *testing.T, userID uuid.UUID, amount float64, createdAt time.Time) order.Order {
	addr, err := valueobject.NewAddress("Jane Doe", "12 Orchard Lane", "Springfield", "IL")
	require.NoError(t, err)
	o, err := order.New(userID, valueobject.NewMoneyUSDFromFloat(amount), addr, "card")
	require.NoError(t, err)
	o.CreatedAt = createdAt
	return *o
}

func TestService_List(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	profileRepo := new(MockProfileRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewService(profileRepo, orderRepo).WithClock(func() time.Time { return now })

	repeat := newProfile(t, "Repeat Rita", "rita@example.com", now.Add(-30*24*time.Hour))
	fresh := newProfile(t, "New Noah", "noah@example.com", now.Add(-2*24*time.Hour))
	idle := newProfile(t, "Idle Ivy", "ivy@example.com", now.Add(-90*24*time.Hour))

	profiles := shared.NewPaginated([]*domain.Profile{repeat, fresh, idle}, 3, 1, 0)
	profileRepo.On("FindAll", mock.Anything, mock.Anything).Return(&profiles, nil)

	orders := []order.Order{
		newOrderFor(t, repeat.ID, 40, now.Add(-20*24*time.Hour)),
		newOrderFor(t, repeat.ID, 60, now.Add(-5*24*time.Hour)),
		newOrderFor(t, fresh.ID, 25, now.Add(-1*24*time.Hour)),
	}
	orderRepo.On("FindAllRaw", mock.Anything).Return(orders, nil)

	t.Run("aggregates per customer", func(t *testing.T) {
		result, err := svc.List(context.Background(), SegmentAll, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, result.Items, 3)

		byEmail := map[string]CustomerView{}
		for _, v := range result.Items {
			byEmail[v.Email] = v
		}

		rita := byEmail["rita@example.com"]
		assert.Equal(t, 2, rita.TotalOrders)
		assert.True(t, rita.TotalSpend.Equal(decimal.NewFromInt(100)))
		require.NotNil(t, rita.LastOrderDate)
		assert.Equal(t, now.Add(-5*24*time.Hour), *rita.LastOrderDate)
		assert.True(t, rita.IsRepeat)
		assert.False(t, rita.IsNew)

		noah := byEmail["noah@example.com"]
		assert.Equal(t, 1, noah.TotalOrders)
		assert.True(t, noah.IsNew)
		assert.False(t, noah.IsRepeat)

		ivy := byEmail["ivy@example.com"]
		assert.Equal(t, 0, ivy.TotalOrders)
		assert.True(t, ivy.TotalSpend.IsZero())
		assert.Nil(t, ivy.LastOrderDate)
	})

	t.Run("filters segments", func(t *testing.T) {
		active, err := svc.List(context.Background(), SegmentActive, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, active.Items, 2)

		newOnes, err := svc.List(context.Background(), SegmentNew, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, newOnes.Items, 1)
		assert.Equal(t, "noah@example.com", newOnes.Items[0].Email)

		repeats, err := svc.List(context.Background(), SegmentRepeat, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, repeats.Items, 1)
		assert.Equal(t, "rita@example.com", repeats.Items[0].Email)
	})

	t.Run("summary counts the whole population", func(t *testing.T) {
		summary, err := svc.Summarize(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 2, summary.Active)
		assert.Equal(t, 1, summary.New)
		assert.Equal(t, 1, summary.Repeat)
	})
}

func TestService_List_SpendSumsAllOrderAmounts(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	profileRepo := new(MockProfileRepository)
	orderRepo := new(MockOrderRepository)
	svc := NewService(profileRepo, orderRepo).WithClock(func() time.Time { return now })

	p := newProfile(t, "Lifetime Lee", "lee@example.com", now.Add(-60*24*time.Hour))
	profiles := shared.NewPaginated([]*domain.Profile{p}, 1, 1, 0)
	profileRepo.On("FindAll", mock.Anything, mock.Anything).Return(&profiles, nil)

	// Cancelled and refunded orders still count at their full amount
	cancelled := newOrderFor(t, p.ID, 50, now.Add(-10*24*time.Hour))
	require.NoError(t, cancelled.ChangeStatus(order.StatusCancelled, "changed mind", order.PolicyRestricted))

	refunded := newOrderFor(t, p.ID, 100, now.Add(-5*24*time.Hour))
	_, err := refunded.IssueRefund(decimal.NewFromInt(30), "damaged")
	require.NoError(t, err)

	pending := newOrderFor(t, p.ID, 30, now.Add(-3*24*time.Hour))
	orderRepo.On("FindAllRaw", mock.Anything).Return([]order.Order{cancelled, refunded, pending}, nil)

	result, err := svc.List(context.Background(), SegmentAll, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 3, result.Items[0].TotalOrders)
	assert.True(t, result.Items[0].TotalSpend.Equal(decimal.NewFromInt(180)))
}
