package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	"github.com/sangkips/tillsync/pkg/apperror"
)

type itemRepository struct {
	store *localstore.Store
}

// NewItemRepository creates the local catalog repository
func NewItemRepository(store *localstore.Store) domainRepo.ItemRepository {
	return &itemRepository{store: store}
}

// List returns items ordered by name, filtered by name or SKU
func (r *itemRepository) List(ctx context.Context, search string) []entity.Item {
	items := localstore.Read(r.store, localstore.KeyItems, []entity.Item{})

	if search != "" {
		needle := strings.ToLower(search)
		filtered := items[:0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(strings.ToLower(item.SKU), needle) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	for _, item := range localstore.Read(r.store, localstore.KeyItems, []entity.Item{}) {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := localstore.Update(r.store, localstore.KeyItems, []entity.Item{},
		func(current []entity.Item) ([]entity.Item, error) {
			return append(current, *item), nil
		})
	return err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	item.UpdatedAt = time.Now().UTC()
	_, err := localstore.Update(r.store, localstore.KeyItems, []entity.Item{},
		func(current []entity.Item) ([]entity.Item, error) {
			for i := range current {
				if current[i].ID == item.ID {
					item.CreatedAt = current[i].CreatedAt
					current[i] = *item
					return current, nil
				}
			}
			return current, apperror.NewNotFoundError("Item")
		})
	return err
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := localstore.Update(r.store, localstore.KeyItems, []entity.Item{},
		func(current []entity.Item) ([]entity.Item, error) {
			for i := range current {
				if current[i].ID == id {
					return append(current[:i], current[i+1:]...), nil
				}
			}
			return current, apperror.NewNotFoundError("Item")
		})
	return err
}

func (r *itemRepository) DecrementStock(ctx context.Context, lines []entity.LineItem) {
	sold := make(map[uuid.UUID]int)
	for _, line := range lines {
		if line.ItemID != nil {
			sold[*line.ItemID] += line.Quantity
		}
	}
	if len(sold) == 0 {
		return
	}

	now := time.Now().UTC()
	_, _ = localstore.Update(r.store, localstore.KeyItems, []entity.Item{},
		func(current []entity.Item) ([]entity.Item, error) {
			for i := range current {
				qty, ok := sold[current[i].ID]
				if !ok {
					continue
				}
				current[i].StockQuantity -= qty
				if current[i].StockQuantity < 0 {
					current[i].StockQuantity = 0
				}
				current[i].UpdatedAt = now
			}
			return current, nil
		})
}
