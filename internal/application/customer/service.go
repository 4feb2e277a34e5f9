package customer

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/customer"
	"github.com/harvesthub/backend/internal/domain/order"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NewCustomerWindow is how recently a profile must have been created
// to count as a new customer.
const NewCustomerWindow = 7 * 24 * time.Hour

// Segment labels used by the console's customer filter
const (
	SegmentAll    = "all"
	SegmentActive = "active"
	SegmentNew    = "new"
	SegmentRepeat = "repeat"
)

// CustomerView is a profile joined with its order aggregates
type CustomerView struct {
	ID            uuid.UUID       `json:"id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpend    decimal.Decimal `json:"total_spend"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
	IsNew         bool            `json:"is_new"`
	IsRepeat      bool            `json:"is_repeat"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Summary holds the headline counts above the customer list
type Summary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	New    int `json:"new"`
	Repeat int `json:"repeat"`
}

// Service builds the console's customer views. Aggregates are
// recomputed from raw order rows on every call rather than kept as
// denormalized columns.
type Service struct {
	profileRepo domain.Repository
	orderRepo   order.Repository
	now         func() time.Time
}

// NewService creates a customer Service
func NewService(profileRepo domain.Repository, orderRepo order.Repository) *Service {
	return &Service{
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// WithClock overrides the time source, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type aggregate struct {
	totalOrders   int
	totalSpend    decimal.Decimal
	lastOrderDate *time.Time
}

func (s *Service) aggregates(ctx context.Context) (map[uuid.UUID]aggregate, error) {
	orders, err := s.orderRepo.FindAllRaw(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID]aggregate)
	for i := range orders {
		o := &orders[i]
		agg := byUser[o.UserID]
		agg.totalOrders++
		// Spend is the plain sum of order amounts, regardless of
		// status or refunds, matching the storefront's lifetime figure
		agg.totalSpend = agg.totalSpend.Add(o.Amount)
		if agg.lastOrderDate == nil || o.CreatedAt.After(*agg.lastOrderDate) {
			created := o.CreatedAt
			agg.lastOrderDate = &created
		}
		byUser[o.UserID] = agg
	}
	return byUser, nil
}

func (s *Service) buildView(p *domain.Profile, agg aggregate, now time.Time) CustomerView {
	return CustomerView{
		ID:            p.ID,
		FullName:      p.FullName,
		Email:         p.Email,
		Phone:         p.Phone,
		AvatarURL:     p.AvatarURL,
		TotalOrders:   agg.totalOrders,
		TotalSpend:    agg.totalSpend,
		LastOrderDate: agg.lastOrderDate,
		IsNew:         p.IsNew(now, NewCustomerWindow),
		IsRepeat:      agg.totalOrders >= 2,
		CreatedAt:     p.CreatedAt,
	}
}

func matchesSegment(v CustomerView, segment string) bool {
	switch segment {
	case SegmentActive:
		return v.TotalOrders > 0
	case SegmentNew:
		return v.IsNew
	case SegmentRepeat:
		return v.IsRepeat
	default:
		return true
	}
}

// List returns customer views for the given segment, paginated.
// Pagination applies after aggregation so segment filters see the
// whole population.
func (s *Service) List(ctx context.Context, segment string, filter shared.Filter) (*shared.Paginated[CustomerView], error) {
	profiles, err := s.profileRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return nil, err
	}
	byUser, err := s.aggregates(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]CustomerView, 0, len(profiles.Items))
	for _, p := range profiles.Items {
		v := s.buildView(p, byUser[p.ID], now)
		if matchesSegment(v, segment) {
			views = append(views, v)
		}
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	page := filter.Page
	pageSize := filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total := int64(len(views))
	start := (page - 1) * pageSize
	if start > len(views) {
		start = len(views)
	}
	end := start + pageSize
	if end > len(views) {
		end = len(views)
	}

	result := shared.NewPaginated(views[start:end], total, page, pageSize)
	return &result, nil
}

// Get returns a single customer view with order history
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	byUser, err := s.aggregates(ctx)
	if err != nil {
		return nil, err
	}

	view := s.buildView(profile, byUser[profile.ID], s.now())
	return &view, nil
}

// Summarize returns the headline counts for the customer page
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	profiles, err := s.profileRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return nil, err
	}
	byUser, err := s.aggregates(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := Summary{Total: len(profiles.Items)}
	for _, p := range profiles.Items {
		v := s.buildView(p, byUser[p.ID], now)
		if v.TotalOrders > 0 {
			summary.Active++
		}
		if v.IsNew {
			summary.New++
		}
		if v.IsRepeat {
			summary.Repeat++
		}
	}
	return &summary, nil
}
