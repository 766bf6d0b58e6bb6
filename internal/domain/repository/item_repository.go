package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
)

// ItemRepository is the local demo catalog.
type ItemRepository interface {
	List(ctx context.Context, search string) []entity.Item
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DecrementStock lowers stock for every line item that references a
	// catalog item. Stock never goes below zero.
	DecrementStock(ctx context.Context, lines []entity.LineItem)
}

// DemoReceiptRepository keeps receipts produced in demo mode. They never
// reach the remote store.
type DemoReceiptRepository interface {
	List(ctx context.Context) []entity.Sale
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Append(ctx context.Context, sale entity.Sale) []entity.Sale
}
