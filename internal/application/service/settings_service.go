package service

import (
	"context"

	"github.com/sangkips/tillsync/internal/application/mapper"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"go.uber.org/zap"
)

// SettingsService handles the store profile and receipt template
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	remote       repository.RemoteStore
	log          logger.ZapLogger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, remote repository.RemoteStore, log logger.ZapLogger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		remote:       remote,
		log:          log,
	}
}

// GetSettings returns the saved settings, or the defaults
func (s *SettingsService) GetSettings(ctx context.Context) *entity.StoreSettings {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettingsInput represents the input for updating settings. Version is
// the version the caller read; zero skips the check.
type UpdateSettingsInput struct {
	Settings entity.StoreSettings
	Version  int
}

// UpdateSettingsOutput carries the saved settings and a soft remote error.
type UpdateSettingsOutput struct {
	Settings    *entity.StoreSettings `json:"settings"`
	RemoteError string                `json:"remote_error,omitempty"`
}

// UpdateSettings saves settings locally and mirrors them to the remote store
// when signed in. A remote failure does not undo the local save.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	if err := validateSettings(&input.Settings); err != nil {
		return nil, err
	}

	saved, err := s.settingsRepo.Save(ctx, &input.Settings, input.Version)
	if err != nil {
		return nil, err
	}
	out := &UpdateSettingsOutput{Settings: saved}

	session := s.remote.GetSession(ctx)
	if session == nil {
		return out, nil
	}

	remoteSettings, err := mapper.ToCompanySettings(*saved, session.UserID)
	if err == nil {
		err = s.remote.UpsertSettings(ctx, session.UserID, remoteSettings)
	}
	if err != nil {
		s.log.Warn("settings saved locally only", zap.Error(err))
		out.RemoteError = "Saved locally, remote copy not updated: " + err.Error()
	}
	return out, nil
}

func validateSettings(settings *entity.StoreSettings) error {
	var fieldErrors []apperror.FieldError

	switch settings.DateFormat {
	case "", enum.DateFormatDMY, enum.DateFormatMDY, enum.DateFormatISO:
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "date_format", Message: "must be DD/MM/YYYY, MM/DD/YYYY or YYYY-MM-DD"})
	}
	switch settings.TimeFormat {
	case "", enum.TimeFormat24Hour, enum.TimeFormat12Hour:
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "time_format", Message: "must be 24hour or 12hour"})
	}
	if settings.PaperWidth < 0 || settings.PaperWidth > 64 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "paper_width", Message: "must be between 0 and 64"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
