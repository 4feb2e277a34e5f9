package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/catalog"
	domain "github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/payment"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/domain/shared/valueobject"
)

// Tables announced on the change feed
const (
	TableOrders       = "orders"
	TableTransactions = "transactions"
)

// Service handles order workflow operations: status changes, refunds
// and listing for the console.
type Service struct {
	orderRepo      domain.Repository
	txnRepo        payment.Repository
	productRepo    catalog.ProductRepository
	activityRepo   activity.Repository
	txManager      shared.TxManager
	notifier       shared.Notifier
	eventPublisher shared.EventPublisher
}

// NewService creates an order Service
func NewService(
	orderRepo domain.Repository,
	txnRepo payment.Repository,
	productRepo catalog.ProductRepository,
	activityRepo activity.Repository,
	txManager shared.TxManager,
	notifier shared.Notifier,
) *Service {
	return &Service{
		orderRepo:    orderRepo,
		txnRepo:      txnRepo,
		productRepo:  productRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		notifier:     notifier,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new order with a charge ledger entry
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	o, err := domain.New(req.UserID, valueobject.NewMoneyUSD(req.Amount), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	o.DeliverySlot = req.DeliverySlot

	for _, itemReq := range req.Items {
		product, err := s.productRepo.FindByID(ctx, itemReq.ProductID)
		if err != nil {
			return nil, err
		}
		unitPrice := valueobject.NewMoneyUSD(product.EffectivePrice())
		if _, err := o.AddItem(product.ID, product.Name, product.SKU, itemReq.Qty, unitPrice); err != nil {
			return nil, err
		}
	}

	charge, err := payment.NewCharge(o.ID, o.UserID, o.Amount, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		return s.txnRepo.Save(ctx, charge)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)
	s.notify(ctx, TableOrders, TableTransactions)

	response := ToOrderResponse(o)
	return &response, nil
}

// Get returns a single order with its items and audit trail
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List returns orders matching the filter, paginated
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderListResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListResponse(&orders[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByStatus returns orders in the given status, paginated
func (s *Service) ListByStatus(ctx context.Context, status domain.Status, filter shared.Filter) (*shared.Paginated[OrderListResponse], error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	orders, err := s.orderRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListResponse(&orders[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ChangeStatus moves an order to a new status and records the change
// in the activity log.
func (s *Service) ChangeStatus(ctx context.Context, actorID, orderID uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	policy := domain.PolicyRestricted
	if req.Override {
		policy = domain.PolicyUnrestricted
	}

	if err := o.ChangeStatus(domain.Status(req.Status), req.Reason, policy); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionOrderStatusUpdated, o.ID, activity.Details{
		"from":   string(from),
		"to":     string(o.Status),
		"reason": req.Reason,
	})
	s.publishEvents(ctx, o)
	s.notify(ctx, TableOrders)

	response := ToOrderResponse(o)
	return &response, nil
}

// IssueRefund records a refund against an order. The ledger entry and
// the order update are committed in a single database transaction so
// the ledger can never disagree with the order's refund totals.
func (s *Service) IssueRefund(ctx context.Context, actorID, orderID uuid.UUID, req RefundRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	record, err := o.IssueRefund(req.Amount, req.Reason)
	if err != nil {
		return nil, err
	}

	txn, err := payment.NewRefund(o.ID, o.UserID, record.Amount, o.PaymentMethod, record.Reason)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.txnRepo.Save(ctx, txn); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actorID, activity.ActionOrderRefundIssued, o.ID, activity.Details{
		"amount":         record.Amount.String(),
		"reason":         record.Reason,
		"total_refunded": o.TotalRefunded().String(),
		"status":         string(o.Status),
	})
	s.publishEvents(ctx, o)
	s.notify(ctx, TableOrders, TableTransactions)

	response := ToOrderResponse(o)
	return &response, nil
}

// Transactions returns the payment ledger for an order
func (s *Service) Transactions(ctx context.Context, orderID uuid.UUID) ([]*payment.Transaction, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.txnRepo.FindByOrder(ctx, orderID)
}

func (s *Service) recordActivity(ctx context.Context, actorID uuid.UUID, action string, entityID uuid.UUID, details activity.Details) {
	if s.activityRepo == nil || actorID == uuid.Nil {
		return
	}
	entry, err := activity.NewLog(actorID, action, "order", entityID, details)
	if err != nil {
		return
	}
	// Audit failures must not fail the operation itself
	_ = s.activityRepo.Save(ctx, entry)
}

func (s *Service) publishEvents(ctx context.Context, o *domain.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}

func (s *Service) notify(ctx context.Context, tables ...string) {
	if s.notifier == nil {
		return
	}
	for _, table := range tables {
		_ = s.notifier.Notify(ctx, table)
	}
}
