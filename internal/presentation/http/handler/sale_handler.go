package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/request"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"go.uber.org/zap"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	syncService    *service.SyncService
	catalogService *service.CatalogService
	receiptService *service.ReceiptService
	settings       *service.SettingsService
	log            logger.ZapLogger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(
	syncService *service.SyncService,
	catalogService *service.CatalogService,
	receiptService *service.ReceiptService,
	settings *service.SettingsService,
	log logger.ZapLogger,
) *SaleHandler {
	return &SaleHandler{
		syncService:    syncService,
		catalogService: catalogService,
		receiptService: receiptService,
		settings:       settings,
		log:            log,
	}
}

// List handles listing the local sale history, newest first
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result := h.syncService.ListSales(c.Request.Context(), pageParams(filter.Page, filter.PerPage))
	response.SuccessWithPagination(c, "Sales retrieved successfully", result)
}

// Get handles getting one sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.syncService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sale == nil {
		response.Error(c, apperror.NewNotFoundError("Sale"))
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Create records a completed cart. The sale is always saved locally; a
// remote failure is reported as a warning, not an error.
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	items, err := h.catalogService.ResolveCart(ctx, toCartLines(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := service.ValidateItems(items); err != nil {
		response.Error(c, err)
		return
	}

	at := time.Now()
	if req.Date != nil && !req.Date.IsZero() {
		at = *req.Date
	}
	sale := entity.NewSale(req.Customer, items, at, h.settings.GetSettings(ctx).WalkInLabel)
	if req.ID != nil && *req.ID != uuid.Nil {
		sale.ID = *req.ID
	}

	result, err := h.syncService.SaveSale(ctx, *sale)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Sale.ReceiptHTML == "" {
		if html, err := h.receiptService.CacheReceipt(ctx, result.Sale); err != nil {
			h.log.Warn("receipt not cached", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		} else {
			result.Sale.ReceiptHTML = html
		}
	}

	if result.RemoteError != "" {
		response.SuccessWithWarning(c, http.StatusCreated, "Sale saved locally", result, result.RemoteError)
		return
	}
	response.Created(c, "Sale saved successfully", result)
}

// Receipt returns the printable HTML receipt of a sale
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	html, err := h.receiptService.SaleReceiptHTML(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Print sends the receipt of a sale to the printer
func (h *SaleHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.PrintSale(c.Request.Context(), id)
	if err != nil {
		// If receipt was built but printing failed, return receipt with warning
		if receipt != nil {
			response.SuccessWithWarning(c, http.StatusOK, "Receipt generated but printing failed", gin.H{"receipt": receipt}, err.Error())
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}

// Preview renders an unsaved cart as HTML
func (h *SaleHandler) Preview(c *gin.Context) {
	var req request.PreviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	items, err := h.catalogService.ResolveCart(ctx, toCartLines(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	html, err := h.receiptService.PreviewReceipt(ctx, req.Customer, items, req.Settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
