package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	domain "github.com/harvesthub/backend/internal/domain/activity"
	"github.com/harvesthub/backend/internal/domain/shared"
)

// LogResponse represents an audit entry in API responses
type LogResponse struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	Details    domain.Details `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToLogResponse maps an audit entry to its API representation
func ToLogResponse(l *domain.Log) LogResponse {
	return LogResponse{
		ID:         l.ID,
		ActorID:    l.ActorID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt,
	}
}

// Service reads the console audit trail
type Service struct {
	repo domain.Repository
}

// NewService creates an activity Service
func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

// List returns audit entries, newest first, paginated
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[LogResponse], error) {
	result, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LogResponse, len(result.Items))
	for i, l := range result.Items {
		items[i] = ToLogResponse(l)
	}
	mapped := shared.Paginated[LogResponse]{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
	return &mapped, nil
}

// ListForEntity returns the audit trail of a single entity
func (s *Service) ListForEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]LogResponse, error) {
	logs, err := s.repo.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	items := make([]LogResponse, len(logs))
	for i, l := range logs {
		items[i] = ToLogResponse(l)
	}
	return items, nil
}
