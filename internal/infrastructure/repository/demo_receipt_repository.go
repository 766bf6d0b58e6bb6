package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
)

type demoReceiptRepository struct {
	store *localstore.Store
}

// NewDemoReceiptRepository creates the demo receipt history repository
func NewDemoReceiptRepository(store *localstore.Store) domainRepo.DemoReceiptRepository {
	return &demoReceiptRepository{store: store}
}

func (r *demoReceiptRepository) List(ctx context.Context) []entity.Sale {
	return localstore.Read(r.store, localstore.KeyDemoReceipts, []entity.Sale{})
}

func (r *demoReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	for _, sale := range r.List(ctx) {
		if sale.ID == id {
			found := sale
			return &found, nil
		}
	}
	return nil, nil
}

func (r *demoReceiptRepository) Append(ctx context.Context, sale entity.Sale) []entity.Sale {
	receipts, _ := localstore.Update(r.store, localstore.KeyDemoReceipts, []entity.Sale{},
		func(current []entity.Sale) ([]entity.Sale, error) {
			return append(current, sale), nil
		})
	return receipts
}
