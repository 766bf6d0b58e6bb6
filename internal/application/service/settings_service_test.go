package service

import (
	"context"
	"testing"

	"github.com/sangkips/tillsync/internal/application/mapper"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSettingsVersioning(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	svc := NewSettingsService(env.settings, env.remote, logger.NewNop())

	current := svc.GetSettings(ctx)
	assert.Zero(t, current.Version)

	next := *current
	next.StoreName = "Corner Shop"
	out, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{Settings: next})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Settings.Version)
	assert.Empty(t, out.RemoteError)

	stale := next
	stale.StoreName = "Stale"
	_, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{Settings: stale, Version: 7})
	assert.ErrorIs(t, err, apperror.ErrVersionConflict)
	assert.Equal(t, "Corner Shop", svc.GetSettings(ctx).StoreName)

	out, err = svc.UpdateSettings(ctx, &UpdateSettingsInput{Settings: stale, Version: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Settings.Version)
}

func TestUpdateSettingsValidation(t *testing.T) {
	env := newTestEnv(t, SyncOptions{})
	svc := NewSettingsService(env.settings, env.remote, logger.NewNop())

	bad := entity.DefaultStoreSettings()
	bad.DateFormat = "YYYY/DD/MM"
	bad.TimeFormat = "48hour"
	bad.PaperWidth = 100

	_, err := svc.UpdateSettings(context.Background(), &UpdateSettingsInput{Settings: bad})
	appErr := apperror.GetAppError(err)
	assert.Len(t, appErr.Errors, 3)
}

func TestUpdateSettingsMirrorsToRemote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	session := env.remote.signIn()
	svc := NewSettingsService(env.settings, env.remote, logger.NewNop())

	next := entity.DefaultStoreSettings()
	next.StoreName = "Corner Shop"
	next.ShowItemCount = true
	_, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{Settings: next})
	require.NoError(t, err)

	stored := env.remote.settings[session.UserID]
	require.NotNil(t, stored)
	assert.Equal(t, "Corner Shop", stored.CompanyName)

	back, err := mapper.FromCompanySettings(stored, entity.DefaultStoreSettings())
	require.NoError(t, err)
	assert.True(t, back.ShowItemCount)
}

func TestUpdateSettingsRemoteFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	env.remote.signIn()
	env.remote.upsertErr = errUnreachable
	svc := NewSettingsService(env.settings, env.remote, logger.NewNop())

	next := entity.DefaultStoreSettings()
	next.FooterMessage = "Come again"
	out, err := svc.UpdateSettings(ctx, &UpdateSettingsInput{Settings: next})
	require.NoError(t, err)
	assert.Contains(t, out.RemoteError, "Saved locally")
	assert.Equal(t, "Come again", svc.GetSettings(ctx).FooterMessage)
}
