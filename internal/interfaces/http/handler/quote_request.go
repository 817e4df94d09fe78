package handler

import (
	"context"

	quoteapp "github.com/crm/backend/internal/application/quote"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteRequestService is the quote-request use-case surface the handler drives
type QuoteRequestService interface {
	Create(ctx context.Context, req quoteapp.CreateQuoteRequestRequest) (*quoteapp.QuoteRequestResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.QuoteRequestResponse, error)
	List(ctx context.Context) ([]quoteapp.QuoteRequestResponse, error)
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]quoteapp.QuoteRequestResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req quoteapp.UpdateRequestStatusRequest) (*quoteapp.QuoteRequestResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuoteRequestHandler handles quote request endpoints
type QuoteRequestHandler struct {
	BaseHandler
	service QuoteRequestService
}

// NewQuoteRequestHandler creates a new QuoteRequestHandler
func NewQuoteRequestHandler(service QuoteRequestService, log *zap.Logger) *QuoteRequestHandler {
	return &QuoteRequestHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Create handles POST /quote-requests
func (h *QuoteRequestHandler) Create(c *gin.Context) {
	var req quoteapp.CreateQuoteRequestRequest
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

// List handles GET /quote-requests
func (h *QuoteRequestHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByContact handles GET /contacts/:id/quote-requests
func (h *QuoteRequestHandler) ListByContact(c *gin.Context) {
	contactID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListByContact(c.Request.Context(), contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /quote-requests/:id
func (h *QuoteRequestHandler) GetByID(c *gin.Context) {
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

// UpdateStatus handles PATCH /quote-requests/:id/status
func (h *QuoteRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /quote-requests/:id
func (h *QuoteRequestHandler) Delete(c *gin.Context) {
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
