package repository

import (
	"context"

	"github.com/sangkips/tillsync/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and scope
	GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key until it expires
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
}
