package repository

import (
	"context"
	"time"

	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	"github.com/sangkips/tillsync/pkg/apperror"
)

type settingsRepository struct {
	store    *localstore.Store
	defaults entity.StoreSettings
}

// NewSettingsRepository creates a new settings repository. defaults is
// returned until settings are saved.
func NewSettingsRepository(store *localstore.Store, defaults entity.StoreSettings) repository.SettingsRepository {
	return &settingsRepository{store: store, defaults: defaults}
}

// Get retrieves the saved settings
func (r *settingsRepository) Get(ctx context.Context) *entity.StoreSettings {
	settings := localstore.Read(r.store, localstore.KeyStoreSettings, r.defaults)
	return &settings
}

// Save overwrites the settings when expectedVersion matches
func (r *settingsRepository) Save(ctx context.Context, settings *entity.StoreSettings, expectedVersion int) (*entity.StoreSettings, error) {
	saved, err := localstore.Update(r.store, localstore.KeyStoreSettings, r.defaults,
		func(current entity.StoreSettings) (entity.StoreSettings, error) {
			if expectedVersion != 0 && expectedVersion != current.Version {
				return current, apperror.ErrVersionConflict
			}
			next := *settings
			next.Version = current.Version + 1
			next.UpdatedAt = time.Now().UTC()
			return next, nil
		})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Replace stores settings pulled from the remote store
func (r *settingsRepository) Replace(ctx context.Context, settings *entity.StoreSettings) *entity.StoreSettings {
	saved, _ := localstore.Update(r.store, localstore.KeyStoreSettings, r.defaults,
		func(current entity.StoreSettings) (entity.StoreSettings, error) {
			next := *settings
			next.Version = current.Version + 1
			if next.UpdatedAt.IsZero() {
				next.UpdatedAt = time.Now().UTC()
			}
			return next, nil
		})
	return &saved
}
