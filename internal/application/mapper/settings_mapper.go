package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"gorm.io/datatypes"
)

// ToCompanySettings stores the store profile in columns and the whole
// template as JSON.
func ToCompanySettings(settings entity.StoreSettings, userID uuid.UUID) (*entity.CompanySettings, error) {
	template, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode receipt template: %w", err)
	}
	return &entity.CompanySettings{
		UserID:          userID,
		CompanyName:     settings.StoreName,
		CompanyAddress:  settings.StoreAddress,
		CompanyPhone:    settings.StorePhone,
		ReceiptTemplate: datatypes.JSON(template),
		UpdatedAt:       settings.UpdatedAt,
	}, nil
}

// FromCompanySettings overlays the remote template on base. Fields missing
// from the stored template keep their base values; non-empty profile columns
// win over the template.
func FromCompanySettings(remote *entity.CompanySettings, base entity.StoreSettings) (entity.StoreSettings, error) {
	settings := base
	if len(remote.ReceiptTemplate) > 0 {
		if err := json.Unmarshal(remote.ReceiptTemplate, &settings); err != nil {
			return base, fmt.Errorf("decode receipt template: %w", err)
		}
	}
	if remote.CompanyName != "" {
		settings.StoreName = remote.CompanyName
	}
	if remote.CompanyAddress != "" {
		settings.StoreAddress = remote.CompanyAddress
	}
	if remote.CompanyPhone != "" {
		settings.StorePhone = remote.CompanyPhone
	}
	settings.Version = base.Version
	if !remote.UpdatedAt.IsZero() {
		settings.UpdatedAt = remote.UpdatedAt
	}
	return settings, nil
}
