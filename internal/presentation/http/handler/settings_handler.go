package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/request"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the store settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	response.OK(c, "Settings retrieved successfully", h.settingsService.GetSettings(c.Request.Context()))
}

// UpdateSettings replaces the store settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	out, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		Settings: req.Settings,
		Version:  req.Version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if out.RemoteError != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Settings saved locally", out.Settings, out.RemoteError)
		return
	}
	response.OK(c, "Settings updated successfully", out.Settings)
}
