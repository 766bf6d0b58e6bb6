package repository

import (
	"context"
	"time"

	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
)

type idempotencyRepository struct {
	store *localstore.Store
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(store *localstore.Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{store: store}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	ikey := localstore.Read[*entity.IdempotencyKey](r.store, localstore.IdempotencyKey(scope, key), nil)
	if ikey == nil || ikey.IsExpired() {
		return nil, nil
	}
	return ikey, nil
}

// Create stores the key with a TTL so expired keys clean themselves up
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	ttl := time.Until(ikey.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	localstore.WriteTTL(r.store, localstore.IdempotencyKey(ikey.Scope, ikey.Key), ikey, ttl)
	return nil
}
