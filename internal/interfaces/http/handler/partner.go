package handler

import (
	"context"

	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService is the partner use-case surface the handler drives
type PartnerService interface {
	CreateOrGet(ctx context.Context, req partnerapp.CreatePartnerRequest) (*partnerapp.PartnerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.PartnerResponse, error)
	GetByCode(ctx context.Context, code string) (*partnerapp.PartnerResponse, error)
	List(ctx context.Context) ([]partnerapp.PartnerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdatePartnerRequest) (*partnerapp.PartnerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartnerHandler handles partner endpoints
type PartnerHandler struct {
	BaseHandler
	service PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service PartnerService, log *zap.Logger) *PartnerHandler {
	return &PartnerHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Create handles POST /partners (admin onboarding)
func (h *PartnerHandler) Create(c *gin.Context) {
	var req partnerapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.createOrGet(c, req)
}

// Onboard handles POST /partners/me. The identity subject is the caller's.
func (h *PartnerHandler) Onboard(c *gin.Context) {
	var req partnerapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	caller, _ := middleware.GetCaller(c)
	req.IdentitySubject = caller.Subject
	h.createOrGet(c, req)
}

func (h *PartnerHandler) createOrGet(c *gin.Context, req partnerapp.CreatePartnerRequest) {
	resp, err := h.service.CreateOrGet(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /partners
func (h *PartnerHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /partners/:id
func (h *PartnerHandler) GetByID(c *gin.Context) {
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

// GetByCode handles GET /partners/code/:code
func (h *PartnerHandler) GetByCode(c *gin.Context) {
	resp, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /partners/:id
func (h *PartnerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdatePartnerRequest
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

// Delete handles DELETE /partners/:id
func (h *PartnerHandler) Delete(c *gin.Context) {
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
