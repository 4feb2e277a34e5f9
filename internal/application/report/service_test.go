package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/catalog"
	"github.com/harvesthub/backend/internal/domain/customer"
	"github.com/harvesthub/backend/internal/domain/inventory"
	"github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*customer.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*customer.Profile], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*customer.Profile]), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *customer.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

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

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Item], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*inventory.Item]), args.Error(1)
}

func (m *MockInventoryRepository) FindLowStock(ctx context.Context) ([]*inventory.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Item), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newOrder(t *testing.T, amount float64, createdAt time.Time) order.Order {
	t.Helper()
	addr, err := valueobject.NewAddress("Jane Doe", "12 Orchard Lane", "Springfield", "IL")
	require.NoError(t, err)
	o, err := order.New(uuid.New(), valueobject.NewMoneyUSDFromFloat(amount), addr, "card")
	require.NoError(t, err)
	o.CreatedAt = createdAt
	o.ClearDomainEvents()
	return *o
}

func TestService_BuildDashboard(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	productRepo := new(MockProductRepository)
	profileRepo := new(MockProfileRepository)
	orderRepo := new(MockOrderRepository)
	itemRepo := new(MockInventoryRepository)
	svc := NewService(productRepo, orderRepo, profileRepo, itemRepo)

	productRepo.On("Count", mock.Anything).Return(int64(5), nil)
	profileRepo.On("Count", mock.Anything).Return(int64(4), nil)

	cancelled := newOrder(t, 50, now.Add(-3*time.Hour))
	require.NoError(t, cancelled.ChangeStatus(order.StatusCancelled, "changed mind", order.PolicyRestricted))

	refunded := newOrder(t, 100, now.Add(-2*time.Hour))
	_, err := refunded.IssueRefund(decimal.NewFromInt(30), "damaged")
	require.NoError(t, err)

	pending := newOrder(t, 30, now.Add(-time.Hour))

	orderRepo.On("FindAllRaw", mock.Anything).Return([]order.Order{pending, refunded, cancelled}, nil)
	itemRepo.On("FindLowStock", mock.Anything).Return([]*inventory.Item{{}, {}}, nil)

	dashboard, err := svc.BuildDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), dashboard.ProductCount)
	assert.Equal(t, int64(4), dashboard.CustomerCount)
	assert.Equal(t, int64(3), dashboard.OrderCount)
	assert.Equal(t, 2, dashboard.LowStockCount)

	// Revenue is the plain sum of all order amounts; cancellations and
	// refunds do not reduce it
	assert.True(t, dashboard.Revenue.Equal(decimal.NewFromInt(180)),
		"revenue = %s", dashboard.Revenue)
	assert.True(t, dashboard.TotalRefunded.Equal(decimal.NewFromInt(30)))

	assert.Equal(t, int64(2), dashboard.OrdersByStatus[string(order.StatusPending)])
	assert.Equal(t, int64(1), dashboard.OrdersByStatus[string(order.StatusCancelled)])

	require.Len(t, dashboard.RecentOrders, 3)
	assert.Equal(t, pending.ID.String(), dashboard.RecentOrders[0].ID)
}
