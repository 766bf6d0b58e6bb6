package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/request"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// ItemHandler handles the demo catalog and demo checkout
type ItemHandler struct {
	catalogService *service.CatalogService
}

// NewItemHandler creates a new item handler
func NewItemHandler(catalogService *service.CatalogService) *ItemHandler {
	return &ItemHandler{catalogService: catalogService}
}

// List handles listing catalog items
func (h *ItemHandler) List(c *gin.Context) {
	items := h.catalogService.ListItems(c.Request.Context(), c.Query("search"))
	response.OK(c, "Items retrieved successfully", items)
}

// Get handles getting an item by ID
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// Create handles item creation
func (h *ItemHandler) Create(c *gin.Context) {
	var req request.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// Update handles item update
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// Delete handles item deletion
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item deleted successfully", nil)
}

// Checkout completes a demo cart. Demo receipts never reach the remote store.
func (h *ItemHandler) Checkout(c *gin.Context) {
	var req request.DemoCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	out, err := h.catalogService.DemoCheckout(c.Request.Context(), req.Customer, toCartLines(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Demo sale completed", out)
}

// ListReceipts lists demo receipts, newest first
func (h *ItemHandler) ListReceipts(c *gin.Context) {
	response.OK(c, "Demo receipts retrieved successfully", h.catalogService.ListDemoReceipts(c.Request.Context()))
}

// GetReceipt returns one demo receipt
func (h *ItemHandler) GetReceipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.catalogService.GetDemoReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Demo receipt retrieved successfully", sale)
}

func itemInput(req *request.ItemRequest) *service.ItemInput {
	return &service.ItemInput{
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
}
