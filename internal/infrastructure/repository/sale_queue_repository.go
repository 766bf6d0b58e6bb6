package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
)

type saleQueueRepository struct {
	store *localstore.Store
	key   string
}

// NewPendingSaleRepository creates the queue of sales waiting for the remote store
func NewPendingSaleRepository(store *localstore.Store) domainRepo.SaleQueueRepository {
	return &saleQueueRepository{store: store, key: localstore.KeyPendingSales}
}

// NewDeadLetterRepository creates the list of sales the remote store rejected
func NewDeadLetterRepository(store *localstore.Store) domainRepo.SaleQueueRepository {
	return &saleQueueRepository{store: store, key: localstore.KeyDeadLetterSales}
}

func (r *saleQueueRepository) List(ctx context.Context) []entity.PendingSale {
	return localstore.Read(r.store, r.key, []entity.PendingSale{})
}

func (r *saleQueueRepository) Len(ctx context.Context) int {
	return len(r.List(ctx))
}

// Enqueue appends entry, replacing an existing entry for the same sale.
func (r *saleQueueRepository) Enqueue(ctx context.Context, entry entity.PendingSale) {
	r.update(func(current []entity.PendingSale) []entity.PendingSale {
		for i := range current {
			if current[i].Sale.ID == entry.Sale.ID {
				current[i] = entry
				return current
			}
		}
		return append(current, entry)
	})
}

func (r *saleQueueRepository) Remove(ctx context.Context, id uuid.UUID) {
	r.update(func(current []entity.PendingSale) []entity.PendingSale {
		kept := current[:0]
		for _, e := range current {
			if e.Sale.ID != id {
				kept = append(kept, e)
			}
		}
		return kept
	})
}

func (r *saleQueueRepository) Put(ctx context.Context, entry entity.PendingSale) {
	r.update(func(current []entity.PendingSale) []entity.PendingSale {
		for i := range current {
			if current[i].Sale.ID == entry.Sale.ID {
				current[i] = entry
			}
		}
		return current
	})
}

func (r *saleQueueRepository) Drain(ctx context.Context) []entity.PendingSale {
	var drained []entity.PendingSale
	r.update(func(current []entity.PendingSale) []entity.PendingSale {
		drained = current
		return []entity.PendingSale{}
	})
	return drained
}

func (r *saleQueueRepository) update(fn func([]entity.PendingSale) []entity.PendingSale) {
	_, _ = localstore.Update(r.store, r.key, []entity.PendingSale{},
		func(current []entity.PendingSale) ([]entity.PendingSale, error) {
			return fn(current), nil
		})
}
