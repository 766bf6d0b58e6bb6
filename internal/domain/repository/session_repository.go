package repository

import (
	"context"

	"github.com/sangkips/tillsync/internal/domain/entity"
)

// SessionRepository persists the signed-in session on this till.
type SessionRepository interface {
	Get(ctx context.Context) *entity.Session
	Save(ctx context.Context, session *entity.Session)
	Clear(ctx context.Context)
}
