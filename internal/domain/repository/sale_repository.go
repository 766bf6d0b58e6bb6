package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
)

// SaleHistoryRepository is the local, append-only list of completed sales.
type SaleHistoryRepository interface {
	List(ctx context.Context) []entity.Sale
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// Append adds a sale and returns the full history after the write.
	// inserted is false when a sale with the same id is already stored.
	Append(ctx context.Context, sale entity.Sale) (sales []entity.Sale, inserted bool)
	// MergeRemote merges sales fetched from the remote store into the history
	// (see entity.MergeSales) and returns the merged history.
	MergeRemote(ctx context.Context, remote []entity.Sale) []entity.Sale
	// MarkSync updates only the sync metadata of a sale. Business fields
	// never change once a sale is written.
	MarkSync(ctx context.Context, id uuid.UUID, meta entity.SyncMeta) error
	// SetReceiptHTML caches the rendered receipt of a sale.
	SetReceiptHTML(ctx context.Context, id uuid.UUID, html string) error
	// CountByState is used by the status endpoint.
	CountByState(ctx context.Context, state enum.SyncState) int
}

// SaleQueueRepository is an ordered queue of sales waiting for the remote
// store. The pending queue and the dead-letter list share this shape.
type SaleQueueRepository interface {
	List(ctx context.Context) []entity.PendingSale
	Len(ctx context.Context) int
	Enqueue(ctx context.Context, entry entity.PendingSale)
	// Remove drops the entry with the given sale id. Unknown ids are ignored.
	Remove(ctx context.Context, id uuid.UUID)
	// Put replaces the entry with the same sale id in place.
	Put(ctx context.Context, entry entity.PendingSale)
	// Drain empties the queue and returns what it held.
	Drain(ctx context.Context) []entity.PendingSale
}

// SyncStatusRepository keeps the outcome of the last sync run.
type SyncStatusRepository interface {
	Get(ctx context.Context) entity.SyncStatus
	Save(ctx context.Context, status entity.SyncStatus)
}
