package entity

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is one cart line as of sale time. Name and price are copied from the
// catalog, never referenced live.
type LineItem struct {
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity, unrounded.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SyncMeta is bookkeeping for the remote mirror of a sale. It is the only part
// of a sale that changes after creation.
type SyncMeta struct {
	State         enum.SyncState `json:"state"`
	Attempts      int            `json:"attempts,omitempty"`
	LastError     string         `json:"last_error,omitempty"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	SyncedAt      *time.Time     `json:"synced_at,omitempty"`
}

// Sale is a completed transaction. Total and item count are always derived
// from Items.
type Sale struct {
	ID          uuid.UUID  `json:"id"`
	Date        time.Time  `json:"date"`
	Customer    string     `json:"customer"`
	Items       []LineItem `json:"items"`
	ReceiptHTML string     `json:"receipt_html,omitempty"`
	Sync        SyncMeta   `json:"sync"`
}

// NewSale creates a sale with a fresh id. An empty customer becomes walkInLabel.
func NewSale(customer string, items []LineItem, at time.Time, walkInLabel string) *Sale {
	if customer == "" {
		customer = walkInLabel
	}
	copied := make([]LineItem, len(items))
	copy(copied, items)
	return &Sale{
		ID:       uuid.New(),
		Date:     at.UTC().Truncate(time.Microsecond),
		Customer: customer,
		Items:    copied,
		Sync:     SyncMeta{State: enum.SyncStateLocalOnly},
	}
}

// Total returns the sum of all line totals.
func (s *Sale) Total() decimal.Decimal {
	return TotalOf(s.Items)
}

// ItemCount returns the sum of all quantities.
func (s *Sale) ItemCount() int {
	return ItemCountOf(s.Items)
}

// TotalOf sums unit price times quantity over items.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCountOf sums quantities over items.
func ItemCountOf(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// MarshalJSON adds the derived total and item count to API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Total     decimal.Decimal `json:"total"`
		ItemCount int             `json:"item_count"`
	}{
		Alias:     Alias(s),
		Total:     s.Total(),
		ItemCount: s.ItemCount(),
	})
}

// PendingSale is a pending queue entry awaiting remote confirmation.
type PendingSale struct {
	Sale          Sale       `json:"sale"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	EnqueuedAt    time.Time  `json:"enqueued_at"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

// MergeSales combines the local history with sales fetched from the remote
// store. Each id appears once. For ids on both sides see mergeRemoteCopy.
// The result is ordered by date, oldest first.
func MergeSales(local, remote []Sale) []Sale {
	index := make(map[uuid.UUID]int, len(local)+len(remote))
	merged := make([]Sale, 0, len(local)+len(remote))

	for _, sale := range local {
		if i, ok := index[sale.ID]; ok {
			merged[i] = sale
			continue
		}
		index[sale.ID] = len(merged)
		merged = append(merged, sale)
	}

	for _, sale := range remote {
		i, ok := index[sale.ID]
		if !ok {
			index[sale.ID] = len(merged)
			merged = append(merged, sale)
			continue
		}
		merged[i] = mergeRemoteCopy(merged[i], sale)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date.Equal(merged[j].Date) {
			return merged[i].ID.String() < merged[j].ID.String()
		}
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

// mergeRemoteCopy resolves an id present on both sides. A local copy that is
// pending or rejected is kept whole since the remote rows may be partial.
// Otherwise the remote customer and sync metadata win, but the local items and
// date stay: remote rows carry no item ids and a coarser timestamp.
func mergeRemoteCopy(local, remote Sale) Sale {
	switch local.Sync.State {
	case enum.SyncStatePendingRemote, enum.SyncStateRejected:
		return local
	}

	merged := remote
	merged.Date = local.Date
	if len(local.Items) > 0 {
		merged.Items = local.Items
	}
	if merged.Sync.SyncedAt == nil {
		merged.Sync.SyncedAt = local.Sync.SyncedAt
	}
	if merged.ReceiptHTML == "" && merged.Sync.InvoiceNumber == local.Sync.InvoiceNumber {
		merged.ReceiptHTML = local.ReceiptHTML
	}
	return merged
}

// SyncStatus is the persisted outcome of the last sync run.
type SyncStatus struct {
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}
