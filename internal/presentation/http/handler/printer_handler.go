package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus(c.Request.Context()))
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint(c.Request.Context())
	if err != nil {
		// Return the receipt data anyway (useful when printer type is "none")
		response.SuccessWithWarning(c, http.StatusOK, "Test print completed (printer may be disabled)", gin.H{"receipt": receipt}, err.Error())
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}
