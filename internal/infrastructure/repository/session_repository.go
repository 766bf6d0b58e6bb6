package repository

import (
	"context"

	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
)

type sessionRepository struct {
	store *localstore.Store
}

// NewSessionRepository creates the local session repository
func NewSessionRepository(store *localstore.Store) domainRepo.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Get(ctx context.Context) *entity.Session {
	return localstore.Read[*entity.Session](r.store, localstore.KeySession, nil)
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session) {
	localstore.Write(r.store, localstore.KeySession, session)
}

func (r *sessionRepository) Clear(ctx context.Context) {
	localstore.Delete(r.store, localstore.KeySession)
}
