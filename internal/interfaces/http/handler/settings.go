package handler

import (
	"context"

	settingsapp "github.com/crm/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingsService is the admin settings surface the handler drives
type SettingsService interface {
	Get(ctx context.Context) (*settingsapp.SettingsResponse, error)
	LegalLinks(ctx context.Context) (*settingsapp.LegalLinksResponse, error)
	Update(ctx context.Context, req settingsapp.UpdateSettingsRequest) (*settingsapp.SettingsResponse, error)
}

// SettingsHandler handles admin settings and the public legal links
type SettingsHandler struct {
	BaseHandler
	service SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{BaseHandler: newBaseHandler(log), service: service}
}

// Get handles GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LegalLinks handles GET /public/legal-links
func (h *SettingsHandler) LegalLinks(c *gin.Context) {
	resp, err := h.service.LegalLinks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
