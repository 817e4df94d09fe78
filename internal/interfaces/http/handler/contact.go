package handler

import (
	"context"

	contactapp "github.com/crm/backend/internal/application/contact"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService is the contact use-case surface the handler drives
type ContactService interface {
	Create(ctx context.Context, req contactapp.ContactRequest) (*contactapp.ContactResponse, error)
	Update(ctx context.Context, id uuid.UUID, req contactapp.ContactRequest) (*contactapp.ContactResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*contactapp.ContactResponse, error)
	List(ctx context.Context, filter contactapp.ListContactsFilter) (*contactapp.ContactListResponse, error)
	ListByPartner(ctx context.Context, partnerCode string) ([]contactapp.ContactResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*contactapp.ContactResponse, error)
	PushToLedger(ctx context.Context, id uuid.UUID) (*contactapp.ContactResponse, error)
	ProcessWebhookLead(ctx context.Context, lead contactapp.WebhookLeadRequest) (*contactapp.ContactResponse, error)
}

// ContactHandler handles contact endpoints
type ContactHandler struct {
	BaseHandler
	service ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Create handles POST /contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactapp.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /contacts
func (h *ContactHandler) List(c *gin.Context) {
	var filter contactapp.ListContactsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// GetByID handles GET /contacts/:id
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req contactapp.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateBillingStatus handles PATCH /contacts/:id/billing-status
func (h *ContactHandler) UpdateBillingStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req contactapp.UpdateBillingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.UpdateBillingStatus(c.Request.Context(), id, req.Status, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PushToLedger handles POST /contacts/:id/ledger
func (h *ContactHandler) PushToLedger(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.PushToLedger(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByPartner handles GET /partners/code/:code/contacts
func (h *ContactHandler) ListByPartner(c *gin.Context) {
	resp, err := h.service.ListByPartner(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// WebhookLead handles POST /webhooks/leads
func (h *ContactHandler) WebhookLead(c *gin.Context) {
	var req contactapp.WebhookLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.ProcessWebhookLead(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
