package report

import (
	"context"

	"github.com/harvesthub/backend/internal/domain/catalog"
	"github.com/harvesthub/backend/internal/domain/customer"
	"github.com/harvesthub/backend/internal/domain/inventory"
	"github.com/harvesthub/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Dashboard holds the headline numbers for the console landing page
type Dashboard struct {
	ProductCount   int64            `json:"product_count"`
	OrderCount     int64            `json:"order_count"`
	CustomerCount  int64            `json:"customer_count"`
	Revenue        decimal.Decimal  `json:"revenue"`
	TotalRefunded  decimal.Decimal  `json:"total_refunded"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	LowStockCount  int              `json:"low_stock_count"`
	RecentOrders   []RecentOrder    `json:"recent_orders"`
}

// RecentOrder is a compact order row for the dashboard feed
type RecentOrder struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

const recentOrderLimit = 5

// Service computes the console dashboard. Like the customer views,
// numbers are recomputed from raw rows on every request.
type Service struct {
	productRepo catalog.ProductRepository
	orderRepo   order.Repository
	profileRepo customer.Repository
	itemRepo    inventory.Repository
}

// NewService creates a report Service
func NewService(
	productRepo catalog.ProductRepository,
	orderRepo order.Repository,
	profileRepo customer.Repository,
	itemRepo inventory.Repository,
) *Service {
	return &Service{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		itemRepo:    itemRepo,
	}
}

// BuildDashboard assembles the landing page numbers
func (s *Service) BuildDashboard(ctx context.Context) (*Dashboard, error) {
	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAllRaw(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		ProductCount:   productCount,
		CustomerCount:  customerCount,
		OrderCount:     int64(len(orders)),
		Revenue:        decimal.Zero,
		TotalRefunded:  decimal.Zero,
		OrdersByStatus: make(map[string]int64),
	}

	for i := range orders {
		o := &orders[i]
		dashboard.OrdersByStatus[string(o.Status)]++
		dashboard.TotalRefunded = dashboard.TotalRefunded.Add(o.TotalRefunded())
		// Revenue is the plain sum of order amounts; refunds are a
		// separate headline number
		dashboard.Revenue = dashboard.Revenue.Add(o.Amount)
	}

	// Orders come back newest first
	for i := 0; i < len(orders) && i < recentOrderLimit; i++ {
		dashboard.RecentOrders = append(dashboard.RecentOrders, RecentOrder{
			ID:     orders[i].ID.String(),
			Status: string(orders[i].Status),
			Amount: orders[i].Amount,
		})
	}

	if s.itemRepo != nil {
		lowStock, err := s.itemRepo.FindLowStock(ctx)
		if err != nil {
			return nil, err
		}
		dashboard.LowStockCount = len(lowStock)
	}

	return dashboard, nil
}
