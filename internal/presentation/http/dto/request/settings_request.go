package request

import "github.com/sangkips/tillsync/internal/domain/entity"

// UpdateSettingsRequest replaces the saved settings. Version is the version
// the client read; zero skips the conflict check.
type UpdateSettingsRequest struct {
	Settings entity.StoreSettings `json:"settings"`
	Version  int                  `json:"version" binding:"min=0"`
}
