package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// HealthHandler reports liveness and serves the start-up payload
type HealthHandler struct {
	appName     string
	syncService *service.SyncService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(appName string, syncService *service.SyncService) *HealthHandler {
	return &HealthHandler{appName: appName, syncService: syncService}
}

// Health is the liveness probe
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.appName,
		"online":  h.syncService.Online(),
		"pending": h.syncService.PendingCount(c.Request.Context()),
	})
}

// Bootstrap returns the history, settings and session the till starts with.
// It always succeeds; a remote failure is reported as a warning.
func (h *HealthHandler) Bootstrap(c *gin.Context) {
	data := h.syncService.LoadInitialData(c.Request.Context())
	if data.RemoteError != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Loaded local data only", data, data.RemoteError)
		return
	}
	response.OK(c, "Initial data loaded", data)
}
