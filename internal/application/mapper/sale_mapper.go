// Package mapper converts between the till's sale and settings shapes and the
// rows of the remote store.
package mapper

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/sangkips/tillsync/pkg/utils"
	"github.com/shopspring/decimal"
)

// RemoteSale is a sale in remote form: one invoice header plus its lines.
type RemoteSale struct {
	Invoice   entity.Invoice
	LineItems []entity.InvoiceLineItem
}

// ToRemoteShape maps a sale to an invoice owned by userID. The sale is paid
// in full at the till, so the invoice is created paid with nothing due.
func ToRemoteShape(sale entity.Sale, userID uuid.UUID, invoiceNumber string) RemoteSale {
	total := sale.Total()

	lines := make([]entity.InvoiceLineItem, len(sale.Items))
	for i, item := range sale.Items {
		qty := item.Quantity
		lines[i] = entity.InvoiceLineItem{
			ID:          utils.LineItemID(sale.ID, i),
			InvoiceID:   sale.ID,
			Position:    i,
			Description: item.Name,
			Quantity:    &qty,
			UnitPrice:   decimal.NewNullDecimal(item.UnitPrice),
			LineTotal:   decimal.NewNullDecimal(item.LineTotal()),
		}
	}

	return RemoteSale{
		Invoice: entity.Invoice{
			ID:            sale.ID,
			UserID:        userID,
			InvoiceNumber: invoiceNumber,
			CustomerName:  sale.Customer,
			Subtotal:      total,
			TotalAmount:   total,
			PaidAmount:    total,
			BalanceDue:    decimal.Zero,
			IssueDate:     sale.Date,
			DueDate:       sale.Date,
			Status:        enum.InvoiceStatusPaid,
		},
		LineItems: lines,
	}
}

// FromRemoteShape maps an invoice and its lines back to a sale. Missing unit
// prices and quantities count as zero; total and item count come from the
// lines, not from the stored header amounts.
func FromRemoteShape(invoice entity.Invoice, lineItems []entity.InvoiceLineItem, walkInLabel string) entity.Sale {
	ordered := make([]entity.InvoiceLineItem, len(lineItems))
	copy(ordered, lineItems)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	items := make([]entity.LineItem, 0, len(ordered))
	for _, line := range ordered {
		qty := 0
		if line.Quantity != nil {
			qty = *line.Quantity
		}
		price := decimal.Zero
		if line.UnitPrice.Valid {
			price = line.UnitPrice.Decimal
		}
		items = append(items, entity.LineItem{
			Name:      line.Description,
			UnitPrice: price,
			Quantity:  qty,
		})
	}

	customer := invoice.CustomerName
	if customer == "" {
		customer = walkInLabel
	}

	date := invoice.IssueDate
	if date.IsZero() {
		date = invoice.CreatedAt
	}

	var syncedAt *time.Time
	if !invoice.CreatedAt.IsZero() {
		at := invoice.CreatedAt.UTC()
		syncedAt = &at
	}

	return entity.Sale{
		ID:       invoice.ID,
		Date:     date.UTC(),
		Customer: customer,
		Items:    items,
		Sync: entity.SyncMeta{
			State:         enum.SyncStateSynced,
			InvoiceNumber: invoice.InvoiceNumber,
			SyncedAt:      syncedAt,
		},
	}
}
