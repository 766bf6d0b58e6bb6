package request

import "github.com/shopspring/decimal"

// ItemRequest represents a catalog item create or update request
type ItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	SKU           string          `json:"sku" binding:"omitempty,max=100"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
}

// DemoCheckoutRequest represents a demo mode checkout
type DemoCheckoutRequest struct {
	Customer string            `json:"customer" binding:"max=255"`
	Items    []CartLineRequest `json:"items" binding:"required,min=1,dive"`
}
