package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	customerapp "github.com/harvesthub/backend/internal/application/customer"
)

// CustomerHandler handles customer directory API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List returns customers with order aggregates, optionally narrowed by ?segment=
func (h *CustomerHandler) List(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	segment := c.Query("segment")
	page, err := h.customerService.List(c.Request.Context(), segment, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get retrieves a single customer with their order aggregates
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	resp, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary returns customer base counts by segment
func (h *CustomerHandler) Summary(c *gin.Context) {
	summary, err := h.customerService.Summarize(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}
