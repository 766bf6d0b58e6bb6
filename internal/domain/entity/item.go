package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry of the local (demo mode) catalog.
type Item struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToLineItem copies the catalog name and price into a cart line.
func (i *Item) ToLineItem(quantity int) LineItem {
	id := i.ID
	return LineItem{
		ItemID:    &id,
		Name:      i.Name,
		UnitPrice: i.Price,
		Quantity:  quantity,
	}
}
