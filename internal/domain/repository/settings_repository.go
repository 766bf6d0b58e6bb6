package repository

import (
	"context"

	"github.com/sangkips/tillsync/internal/domain/entity"
)

// SettingsRepository holds the single store settings instance on this till.
type SettingsRepository interface {
	// Get returns the saved settings or the defaults when none are saved.
	Get(ctx context.Context) *entity.StoreSettings
	// Save overwrites the settings wholesale. When expectedVersion is non-zero
	// and differs from the stored version, apperror.ErrVersionConflict is
	// returned. The saved copy carries the bumped version.
	Save(ctx context.Context, settings *entity.StoreSettings, expectedVersion int) (*entity.StoreSettings, error)
	// Replace stores settings received from the remote store without a version check.
	Replace(ctx context.Context, settings *entity.StoreSettings) *entity.StoreSettings
}
