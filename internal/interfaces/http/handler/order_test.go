package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/harvesthub/backend/internal/application/order"
	"github.com/harvesthub/backend/internal/domain/activity"
	domain "github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/payment"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
	"github.com/harvesthub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository implements order.Repository for testing
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

// MockTransactionRepository implements payment.Repository for testing
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

// MockActivityRepository implements activity.Repository for testing
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

// MockNotifier implements shared.Notifier for testing
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

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	os.Exit(m.Run())
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type orderHandlerDeps struct {
	orderRepo    *MockOrderRepository
	txnRepo      *MockTransactionRepository
	activityRepo *MockActivityRepository
	notifier     *MockNotifier
}

func newTestOrderHandler() (*OrderHandler, orderHandlerDeps) {
	deps := orderHandlerDeps{
		orderRepo:    new(MockOrderRepository),
		txnRepo:      new(MockTransactionRepository),
		activityRepo: new(MockActivityRepository),
		notifier:     new(MockNotifier),
	}
	svc := orderapp.NewService(deps.orderRepo, deps.txnRepo, nil, deps.activityRepo, fakeTxManager{}, deps.notifier)
	return NewOrderHandler(svc), deps
}

func stubOrder(t *testing.T) *domain.Order {
	t.Helper()
	addr, err := valueobject.NewAddress("Jane Doe", "12 Orchard Lane", "Springfield", "IL")
	require.NoError(t, err)
	o, err := domain.New(uuid.New(), valueobject.NewMoneyUSDFromFloat(100), addr, "card")
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func performRequest(h gin.HandlerFunc, method, path string, body []byte, params gin.Params, authed bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if authed {
		c.Set(middleware.JWTUserIDKey, uuid.New().String())
	}
	h(c)
	return w
}

func TestOrderHandler_Get(t *testing.T) {
	t.Run("returns the order", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		o := stubOrder(t)
		deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		w := performRequest(h.Get, http.MethodGet, "/orders/"+o.ID.String(), nil,
			gin.Params{{Key: "id", Value: o.ID.String()}}, false)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool           `json:"success"`
			Data    map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, o.ID.String(), resp.Data["id"])
	})

	t.Run("rejects a malformed ID", func(t *testing.T) {
		h, _ := newTestOrderHandler()

		w := performRequest(h.Get, http.MethodGet, "/orders/nope", nil,
			gin.Params{{Key: "id", Value: "nope"}}, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps not found to 404", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		id := uuid.New()
		deps.orderRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w := performRequest(h.Get, http.MethodGet, "/orders/"+id.String(), nil,
			gin.Params{{Key: "id", Value: id.String()}}, false)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_ChangeStatus(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		h, _ := newTestOrderHandler()
		id := uuid.New()
		body, _ := json.Marshal(map[string]any{"status": "confirmed"})

		w := performRequest(h.ChangeStatus, http.MethodPatch, "/orders/"+id.String()+"/status", body,
			gin.Params{{Key: "id", Value: id.String()}}, false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("confirms a pending order", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		o := stubOrder(t)
		deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		deps.orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		deps.activityRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		deps.notifier.On("Notify", mock.Anything, orderapp.TableOrders).Return(nil)

		body, _ := json.Marshal(map[string]any{"status": "confirmed"})
		w := performRequest(h.ChangeStatus, http.MethodPatch, "/orders/"+o.ID.String()+"/status", body,
			gin.Params{{Key: "id", Value: o.ID.String()}}, true)

		assert.Equal(t, http.StatusOK, w.Code)
		deps.orderRepo.AssertExpectations(t)
	})

	t.Run("maps a skipped transition to 422", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		o := stubOrder(t)
		deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		body, _ := json.Marshal(map[string]any{"status": "shipped"})
		w := performRequest(h.ChangeStatus, http.MethodPatch, "/orders/"+o.ID.String()+"/status", body,
			gin.Params{{Key: "id", Value: o.ID.String()}}, true)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects an unknown status at binding", func(t *testing.T) {
		h, _ := newTestOrderHandler()
		o := stubOrder(t)

		body, _ := json.Marshal(map[string]any{"status": "teleported"})
		w := performRequest(h.ChangeStatus, http.MethodPatch, "/orders/"+o.ID.String()+"/status", body,
			gin.Params{{Key: "id", Value: o.ID.String()}}, true)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Refund(t *testing.T) {
	t.Run("maps refund over balance to 422", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		o := stubOrder(t)
		deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		body, _ := json.Marshal(map[string]any{"amount": "250", "reason": "damaged produce"})
		w := performRequest(h.Refund, http.MethodPost, "/orders/"+o.ID.String()+"/refunds", body,
			gin.Params{{Key: "id", Value: o.ID.String()}}, true)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_REFUND_EXCEEDS_BALANCE", resp.Error.Code)
	})

	t.Run("issues a partial refund", func(t *testing.T) {
		h, deps := newTestOrderHandler()
		o := stubOrder(t)
		deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		deps.orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		deps.txnRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		deps.activityRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		deps.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]any{"amount": "40", "reason": "late delivery"})
		w := performRequest(h.Refund, http.MethodPost, "/orders/"+o.ID.String()+"/refunds", body,
			gin.Params{{Key: "id", Value: o.ID.String()}}, true)

		assert.Equal(t, http.StatusOK, w.Code)
		deps.txnRepo.AssertExpectations(t)
	})
}

func TestOrderHandler_Transactions(t *testing.T) {
	h, deps := newTestOrderHandler()
	o := stubOrder(t)
	deps.orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	deps.txnRepo.On("FindByOrder", mock.Anything, o.ID).Return([]*payment.Transaction{}, nil)

	w := performRequest(h.Transactions, http.MethodGet, "/orders/"+o.ID.String()+"/transactions", nil,
		gin.Params{{Key: "id", Value: o.ID.String()}}, false)

	assert.Equal(t, http.StatusOK, w.Code)
}
