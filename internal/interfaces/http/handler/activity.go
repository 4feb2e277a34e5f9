package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/harvesthub/backend/internal/application/activity"
)

// ActivityHandler handles audit trail API endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.Service
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *activityapp.Service) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List returns activity log entries with pagination and filters
func (h *ActivityHandler) List(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	filter := toFilter(req)

	if actorParam := c.Query("actor_id"); actorParam != "" {
		actorID, err := uuid.Parse(actorParam)
		if err != nil {
			h.BadRequest(c, "Invalid actor ID format")
			return
		}
		filter.Filters["actor_id"] = actorID
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.Filters["entity_type"] = entityType
	}

	page, err := h.activityService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListForEntity returns the audit trail for a single entity
func (h *ActivityHandler) ListForEntity(c *gin.Context) {
	entityType := c.Param("entityType")
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	logs, err := h.activityService.ListForEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, logs)
}
