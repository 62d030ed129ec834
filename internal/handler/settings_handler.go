package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/common/response"
	settingsDomain "github.com/outdoor-rental/service-rental/internal/domain/settings"
)

// SettingsHandler handles site settings HTTP requests.
type SettingsHandler struct {
	service *application.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// RegisterRoutes registers settings routes.
func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", authMW, middleware.RequireRole(auth.RoleAdmin), h.UpdateSettings)
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateSettings handles PUT /api/settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req settingsDomain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "settings updated")
}
