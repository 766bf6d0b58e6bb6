package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CartLineRequest is one cart line. A line with item_id takes name and price
// from the catalog.
type CartLineRequest struct {
	ItemID    *uuid.UUID      `json:"item_id"`
	Name      string          `json:"name" binding:"required_without=ItemID,max=255"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" binding:"min=0"`
}

// CreateSaleRequest represents a completed cart. ID and Date may be supplied
// by a till that created the sale while this agent was unreachable.
type CreateSaleRequest struct {
	ID       *uuid.UUID        `json:"id"`
	Date     *time.Time        `json:"date"`
	Customer string            `json:"customer" binding:"max=255"`
	Items    []CartLineRequest `json:"items" binding:"required,min=1,dive"`
}

// PreviewReceiptRequest renders a cart without saving it. Settings, when
// present, override the saved template for this preview only.
type PreviewReceiptRequest struct {
	Customer string                `json:"customer" binding:"max=255"`
	Items    []CartLineRequest     `json:"items" binding:"dive"`
	Settings *entity.StoreSettings `json:"settings"`
}

// SaleFilterRequest represents sale list parameters
type SaleFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
