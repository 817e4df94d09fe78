package handler

import (
	"context"

	quoteapp "github.com/crm/backend/internal/application/quote"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfferService is the offer use-case surface the handler drives
type OfferService interface {
	Create(ctx context.Context, req quoteapp.CreateOfferRequest) (*quoteapp.OfferResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.OfferResponse, error)
	List(ctx context.Context) ([]quoteapp.OfferResponse, error)
	ListByQuoteRequest(ctx context.Context, quoteRequestID uuid.UUID) ([]quoteapp.OfferResponse, error)
	Update(ctx context.Context, id uuid.UUID, req quoteapp.UpdateOfferRequest) (*quoteapp.OfferResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*quoteapp.OfferResponse, error)
	UpdateBillingStatus(ctx context.Context, id uuid.UUID, status string, isAdmin bool) (*quoteapp.OfferResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListArticles(ctx context.Context) ([]quoteapp.ArticleResponse, error)
	Sync(ctx context.Context, id uuid.UUID) (*quoteapp.SyncOfferResponse, error)
	SyncAll(ctx context.Context) (*quoteapp.BatchSyncResponse, error)
	LoadFromLedger(ctx context.Context, contactID uuid.UUID) ([]quoteapp.OfferResponse, error)
}

// OfferHandler handles offer, article and reconciliation endpoints
type OfferHandler struct {
	BaseHandler
	service OfferService
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(service OfferService, log *zap.Logger) *OfferHandler {
	return &OfferHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Create handles POST /offers
func (h *OfferHandler) Create(c *gin.Context) {
	var req quoteapp.CreateOfferRequest
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

// List handles GET /offers
func (h *OfferHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByQuoteRequest handles GET /quote-requests/:id/offers
func (h *OfferHandler) ListByQuoteRequest(c *gin.Context) {
	quoteRequestID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListByQuoteRequest(c.Request.Context(), quoteRequestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /offers/:id
func (h *OfferHandler) GetByID(c *gin.Context) {
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

// Update handles PUT /offers/:id
func (h *OfferHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.UpdateOfferRequest
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

// UpdateStatus handles PATCH /offers/:id/status
func (h *OfferHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.UpdateOfferStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateBillingStatus handles PATCH /offers/:id/billing-status
func (h *OfferHandler) UpdateBillingStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.UpdateBillingStatusRequest
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

// Delete handles DELETE /offers/:id
func (h *OfferHandler) Delete(c *gin.Context) {
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

// Sync handles POST /offers/:id/sync
func (h *OfferHandler) Sync(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.Sync(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SyncAll handles POST /offers/sync
func (h *OfferHandler) SyncAll(c *gin.Context) {
	resp, err := h.service.SyncAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LoadFromLedger handles POST /contacts/:id/ledger-offers
func (h *OfferHandler) LoadFromLedger(c *gin.Context) {
	contactID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.LoadFromLedger(c.Request.Context(), contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListArticles handles GET /articles
func (h *OfferHandler) ListArticles(c *gin.Context) {
	resp, err := h.service.ListArticles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
