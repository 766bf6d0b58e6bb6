package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, env *testEnv) *AuthService {
	t.Helper()
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	env.remote.users["owner@example.com"] = &entity.User{
		ID:       uuid.New(),
		Name:     "Owner",
		Email:    "owner@example.com",
		Password: hash,
	}
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(env.remote, env.sessions, jwtManager, env.sync, logger.NewNop())
}

func TestLoginPersistsSessionAndLoadsData(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	svc := newAuthService(t, env)

	_, err := env.sync.CreateSale(ctx, "", teaCart())
	require.NoError(t, err)

	out, err := svc.Login(ctx, &LoginInput{Email: "  Owner@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NotNil(t, out.Session)
	assert.Equal(t, "owner@example.com", out.Session.Email)
	assert.NotEmpty(t, out.Session.AccessToken)
	require.NotNil(t, out.Data)
	assert.Len(t, out.Data.Sales, 1)

	session, err := svc.RequireSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, out.Session.UserID, session.UserID)
	assert.True(t, env.sync.Online())

	svc.Logout(ctx)
	assert.Nil(t, svc.CurrentSession(ctx))
	_, err = svc.RequireSession(ctx)
	assert.ErrorIs(t, err, apperror.ErrSessionRequired)
	// local data survives sign out
	assert.Len(t, env.history.List(ctx), 1)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	svc := newAuthService(t, env)

	_, err := svc.Login(ctx, &LoginInput{Email: "owner@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	env.remote.findErr = errUnreachable
	_, err = svc.Login(ctx, &LoginInput{Email: "owner@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrRemoteUnavailable)
	assert.Nil(t, svc.CurrentSession(ctx))
}
