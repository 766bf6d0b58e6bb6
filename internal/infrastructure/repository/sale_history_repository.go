package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	"github.com/sangkips/tillsync/pkg/apperror"
)

type saleHistoryRepository struct {
	store *localstore.Store
}

// NewSaleHistoryRepository creates the local sale history repository
func NewSaleHistoryRepository(store *localstore.Store) domainRepo.SaleHistoryRepository {
	return &saleHistoryRepository{store: store}
}

func (r *saleHistoryRepository) List(ctx context.Context) []entity.Sale {
	return localstore.Read(r.store, localstore.KeySalesHistory, []entity.Sale{})
}

func (r *saleHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	for _, sale := range r.List(ctx) {
		if sale.ID == id {
			s := sale
			return &s, nil
		}
	}
	return nil, nil
}

// Append ignores a sale whose id is already in the history.
func (r *saleHistoryRepository) Append(ctx context.Context, sale entity.Sale) ([]entity.Sale, bool) {
	inserted := false
	sales, _ := localstore.Update(r.store, localstore.KeySalesHistory, []entity.Sale{},
		func(current []entity.Sale) ([]entity.Sale, error) {
			for _, existing := range current {
				if existing.ID == sale.ID {
					return current, nil
				}
			}
			inserted = true
			return append(current, sale), nil
		})
	return sales, inserted
}

func (r *saleHistoryRepository) MergeRemote(ctx context.Context, remote []entity.Sale) []entity.Sale {
	sales, _ := localstore.Update(r.store, localstore.KeySalesHistory, []entity.Sale{},
		func(current []entity.Sale) ([]entity.Sale, error) {
			return entity.MergeSales(current, remote), nil
		})
	return sales
}

func (r *saleHistoryRepository) MarkSync(ctx context.Context, id uuid.UUID, meta entity.SyncMeta) error {
	_, err := localstore.Update(r.store, localstore.KeySalesHistory, []entity.Sale{},
		func(current []entity.Sale) ([]entity.Sale, error) {
			for i := range current {
				if current[i].ID == id {
					if current[i].Sync.InvoiceNumber != meta.InvoiceNumber {
						current[i].ReceiptHTML = ""
					}
					current[i].Sync = meta
					return current, nil
				}
			}
			return current, apperror.NewNotFoundError("Sale")
		})
	return err
}

func (r *saleHistoryRepository) SetReceiptHTML(ctx context.Context, id uuid.UUID, html string) error {
	_, err := localstore.Update(r.store, localstore.KeySalesHistory, []entity.Sale{},
		func(current []entity.Sale) ([]entity.Sale, error) {
			for i := range current {
				if current[i].ID == id {
					current[i].ReceiptHTML = html
					return current, nil
				}
			}
			return current, apperror.NewNotFoundError("Sale")
		})
	return err
}

func (r *saleHistoryRepository) CountByState(ctx context.Context, state enum.SyncState) int {
	count := 0
	for _, sale := range r.List(ctx) {
		if sale.Sync.State == state {
			count++
		}
	}
	return count
}

type syncStatusRepository struct {
	store *localstore.Store
}

// NewSyncStatusRepository creates the repository for the last sync outcome
func NewSyncStatusRepository(store *localstore.Store) domainRepo.SyncStatusRepository {
	return &syncStatusRepository{store: store}
}

func (r *syncStatusRepository) Get(ctx context.Context) entity.SyncStatus {
	return localstore.Read(r.store, localstore.KeySyncStatus, entity.SyncStatus{})
}

func (r *syncStatusRepository) Save(ctx context.Context, status entity.SyncStatus) {
	localstore.Write(r.store, localstore.KeySyncStatus, status)
}
