package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// SyncHandler exposes the pending queue and the dead-letter list
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Status reports queue sizes and the last sync outcome
func (h *SyncHandler) Status(c *gin.Context) {
	response.OK(c, "Sync status retrieved", h.syncService.Status(c.Request.Context()))
}

// Sync pushes pending sales to the remote store now
func (h *SyncHandler) Sync(c *gin.Context) {
	report := h.syncService.SyncPendingSales(c.Request.Context())
	if report.Skipped {
		response.OK(c, "A sync is already running", report)
		return
	}
	response.OK(c, "Pending sales synced", report)
}

// DeadLetters lists sales the remote store rejected
func (h *SyncHandler) DeadLetters(c *gin.Context) {
	response.OK(c, "Rejected sales retrieved", h.syncService.DeadLetters(c.Request.Context()))
}

// Requeue moves rejected sales back to the pending queue
func (h *SyncHandler) Requeue(c *gin.Context) {
	moved := h.syncService.RequeueRejected(c.Request.Context())
	response.OK(c, "Rejected sales requeued", gin.H{"requeued": moved})
}
