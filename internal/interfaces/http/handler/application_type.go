package handler

import (
	"context"

	quoteapp "github.com/crm/backend/internal/application/quote"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplicationTypeService is the application-type use-case surface the handler drives
type ApplicationTypeService interface {
	Create(ctx context.Context, req quoteapp.ApplicationTypeRequest) (*quoteapp.ApplicationTypeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*quoteapp.ApplicationTypeResponse, error)
	List(ctx context.Context) ([]quoteapp.ApplicationTypeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req quoteapp.ApplicationTypeRequest) (*quoteapp.ApplicationTypeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationTypeHandler handles application type endpoints
type ApplicationTypeHandler struct {
	BaseHandler
	service ApplicationTypeService
}

// NewApplicationTypeHandler creates a new ApplicationTypeHandler
func NewApplicationTypeHandler(service ApplicationTypeService, log *zap.Logger) *ApplicationTypeHandler {
	return &ApplicationTypeHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Create handles POST /application-types
func (h *ApplicationTypeHandler) Create(c *gin.Context) {
	var req quoteapp.ApplicationTypeRequest
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

// List handles GET /application-types
func (h *ApplicationTypeHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /application-types/:id
func (h *ApplicationTypeHandler) GetByID(c *gin.Context) {
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

// Update handles PUT /application-types/:id
func (h *ApplicationTypeHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.ApplicationTypeRequest
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

// Delete handles DELETE /application-types/:id
func (h *ApplicationTypeHandler) Delete(c *gin.Context) {
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
