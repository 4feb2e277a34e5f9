package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	domain "github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/payment"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllRaw(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status domain.Status, filter shared.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of payment.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*payment.Transaction], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*payment.Transaction]), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, txn *payment.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumRefundedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*activity.Log], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*activity.Log]), args.Error(1)
}

func (m *MockActivityRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*activity.Log, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*activity.Log), args.Error(1)
}

func (m *MockActivityRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*activity.Log], error) {
	args := m.Called(ctx, actorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*activity.Log]), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, log *activity.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// MockNotifier is a mock implementation of shared.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, table string) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockNotifier) Subscribe(ctx context.Context, table string) (<-chan string, func(), error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan string), args.Get(1).(func()), args.Error(2)
}

// fakeTxManager runs the function directly, no transaction
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(orderRepo *MockOrderRepository, txnRepo *MockTransactionRepository,
	activityRepo *MockActivityRepository, notifier *MockNotifier) *Service {
	return NewService(orderRepo, txnRepo, nil, activityRepo, fakeTxManager{}, notifier)
}

func newTestOrder(t *testing.T, amount float64) *domain.Order {
	addr, err := valueobject.NewAddress("Jane Doe", "12 Orchard Lane", "Springfield", "IL")
	require.NoError(t, err)
	o, err := domain.New(uuid.New(), valueobject.NewMoneyUSDFromFloat(amount), addr, "card")
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestService_ChangeStatus(t *testing.T) {
	t.Run("confirms a pending order and logs the change", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		txnRepo := new(MockTransactionRepository)
		activityRepo := new(MockActivityRepository)
		notifier := new(MockNotifier)
		svc := newTestService(orderRepo, txnRepo, activityRepo, notifier)

		o := newTestOrder(t, 100)
		actorID := uuid.New()

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		activityRepo.On("Save", mock.Anything, mock.MatchedBy(func(log *activity.Log) bool {
			return log.Action == activity.ActionOrderStatusUpdated &&
				log.ActorID == actorID &&
				log.EntityID == o.ID &&
				log.Details["to"] == "confirmed"
		})).Return(nil)
		notifier.On("Notify", mock.Anything, TableOrders).Return(nil)

		resp, err := svc.ChangeStatus(context.Background(), actorID, o.ID, ChangeStatusRequest{
			Status: "confirmed",
		})
		require.NoError(t, err)

		assert.Equal(t, "confirmed", resp.Status)
		orderRepo.AssertExpectations(t)
		activityRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("rejects a forward skip without override", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := newTestService(orderRepo, new(MockTransactionRepository), new(MockActivityRepository), new(MockNotifier))

		o := newTestOrder(t, 100)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := svc.ChangeStatus(context.Background(), uuid.New(), o.ID, ChangeStatusRequest{
			Status: "shipped",
		})
		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("allows any target with override", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		activityRepo := new(MockActivityRepository)
		notifier := new(MockNotifier)
		svc := newTestService(orderRepo, new(MockTransactionRepository), activityRepo, notifier)

		o := newTestOrder(t, 100)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		activityRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		notifier.On("Notify", mock.Anything, TableOrders).Return(nil)

		resp, err := svc.ChangeStatus(context.Background(), uuid.New(), o.ID, ChangeStatusRequest{
			Status:   "delivered",
			Override: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)
	})

	t.Run("cancellation without reason is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := newTestService(orderRepo, new(MockTransactionRepository), new(MockActivityRepository), new(MockNotifier))

		o := newTestOrder(t, 100)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := svc.ChangeStatus(context.Background(), uuid.New(), o.ID, ChangeStatusRequest{
			Status: "cancelled",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REASON_REQUIRED", domainErr.Code)
	})

	t.Run("propagates concurrent modification errors", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := newTestService(orderRepo, new(MockTransactionRepository), new(MockActivityRepository), new(MockNotifier))

		o := newTestOrder(t, 100)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).
			Return(shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user"))

		_, err := svc.ChangeStatus(context.Background(), uuid.New(), o.ID, ChangeStatusRequest{
			Status: "confirmed",
		})
		require.Error(t, err)
	})
}

func TestService_IssueRefund(t *testing.T) {
	t.Run("partial refund writes a negative ledger entry", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		txnRepo := new(MockTransactionRepository)
		activityRepo := new(MockActivityRepository)
		notifier := new(MockNotifier)
		svc := newTestService(orderRepo, txnRepo, activityRepo, notifier)

		o := newTestOrder(t, 100)
		actorID := uuid.New()

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		txnRepo.On("Save", mock.Anything, mock.MatchedBy(func(txn *payment.Transaction) bool {
			return txn.OrderID == o.ID &&
				txn.Amount.Equal(decimal.NewFromInt(-60)) &&
				txn.Status == payment.TransactionStatusRefunded &&
				txn.RefundReason() == "damaged"
		})).Return(nil)
		activityRepo.On("Save", mock.Anything, mock.MatchedBy(func(log *activity.Log) bool {
			return log.Action == activity.ActionOrderRefundIssued
		})).Return(nil)
		notifier.On("Notify", mock.Anything, TableOrders).Return(nil)
		notifier.On("Notify", mock.Anything, TableTransactions).Return(nil)

		resp, err := svc.IssueRefund(context.Background(), actorID, o.ID, RefundRequest{
			Amount: decimal.NewFromInt(60),
			Reason: "damaged",
		})
		require.NoError(t, err)

		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.TotalRefunded.Equal(decimal.NewFromInt(60)))
		assert.True(t, resp.RefundableBalance.Equal(decimal.NewFromInt(40)))
		txnRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("refund reaching the amount flips status to refunded", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		txnRepo := new(MockTransactionRepository)
		activityRepo := new(MockActivityRepository)
		notifier := new(MockNotifier)
		svc := newTestService(orderRepo, txnRepo, activityRepo, notifier)

		o := newTestOrder(t, 100)
		_, err := o.IssueRefund(decimal.NewFromInt(60), "damaged")
		require.NoError(t, err)
		o.ClearDomainEvents()

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		txnRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		activityRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.IssueRefund(context.Background(), uuid.New(), o.ID, RefundRequest{
			Amount: decimal.NewFromInt(40),
			Reason: "remainder",
		})
		require.NoError(t, err)

		assert.Equal(t, "refunded", resp.Status)
		assert.True(t, resp.RefundableBalance.IsZero())
	})

	t.Run("refund beyond the balance writes nothing", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		txnRepo := new(MockTransactionRepository)
		svc := newTestService(orderRepo, txnRepo, new(MockActivityRepository), new(MockNotifier))

		o := newTestOrder(t, 100)
		_, err := o.IssueRefund(decimal.NewFromInt(100), "full refund")
		require.NoError(t, err)
		o.ClearDomainEvents()

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err = svc.IssueRefund(context.Background(), uuid.New(), o.ID, RefundRequest{
			Amount: decimal.NewFromInt(1),
			Reason: "extra",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REFUND_EXCEEDS_BALANCE", domainErr.Code)
		txnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("ledger failure rolls back without notifying", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		txnRepo := new(MockTransactionRepository)
		notifier := new(MockNotifier)
		svc := newTestService(orderRepo, txnRepo, new(MockActivityRepository), notifier)

		o := newTestOrder(t, 100)
		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		txnRepo.On("Save", mock.Anything, mock.Anything).
			Return(shared.NewDomainError("DB_ERROR", "insert failed"))

		_, err := svc.IssueRefund(context.Background(), uuid.New(), o.ID, RefundRequest{
			Amount: decimal.NewFromInt(10),
			Reason: "damaged",
		})
		require.Error(t, err)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})
}

func TestService_ListByStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestService(orderRepo, new(MockTransactionRepository), new(MockActivityRepository), new(MockNotifier))

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.ListByStatus(context.Background(), domain.Status("bogus"), shared.DefaultFilter())
		require.Error(t, err)
	})

	t.Run("returns paginated rows", func(t *testing.T) {
		o := newTestOrder(t, 100)
		filter := shared.DefaultFilter()

		orderRepo.On("FindByStatus", mock.Anything, domain.StatusPending, filter).
			Return([]domain.Order{*o}, nil)
		orderRepo.On("CountByStatus", mock.Anything, domain.StatusPending).
			Return(int64(1), nil)

		result, err := svc.ListByStatus(context.Background(), domain.StatusPending, filter)
		require.NoError(t, err)

		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, o.ID, result.Items[0].ID)
	})
}
