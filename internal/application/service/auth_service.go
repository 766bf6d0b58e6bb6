package service

import (
	"context"
	"strings"

	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/utils"
	"go.uber.org/zap"
)

// AuthService signs the till in against the remote users table
type AuthService struct {
	remote     repository.RemoteStore
	sessions   repository.SessionRepository
	jwtManager *utils.JWTManager
	syncSvc    *SyncService
	log        logger.ZapLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	remote repository.RemoteStore,
	sessions repository.SessionRepository,
	jwtManager *utils.JWTManager,
	syncSvc *SyncService,
	log logger.ZapLogger,
) *AuthService {
	return &AuthService{
		remote:     remote,
		sessions:   sessions,
		jwtManager: jwtManager,
		syncSvc:    syncSvc,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Session *entity.Session `json:"session"`
	Data    *InitialData    `json:"data"`
}

// Login checks the credentials, persists a session and loads the merged
// history for the new user.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.remote.FindUserByEmail(ctx, email)
	if err != nil {
		s.log.Warn("login failed, remote store unreachable", zap.Error(err))
		s.syncSvc.SetOnline(false)
		return nil, apperror.ErrRemoteUnavailable
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}
	s.sessions.Save(ctx, session)
	s.syncSvc.SetOnline(true)
	s.log.Info("till signed in", zap.String("email", user.Email))

	return &LoginOutput{
		Session: session,
		Data:    s.syncSvc.LoadInitialData(ctx),
	}, nil
}

// Logout forgets the session. Local data stays on the till.
func (s *AuthService) Logout(ctx context.Context) {
	s.sessions.Clear(ctx)
}

// CurrentSession returns the valid session or nil.
func (s *AuthService) CurrentSession(ctx context.Context) *entity.Session {
	return s.remote.GetSession(ctx)
}

// RequireSession returns the valid session or apperror.ErrSessionRequired.
func (s *AuthService) RequireSession(ctx context.Context) (*entity.Session, error) {
	session := s.remote.GetSession(ctx)
	if session == nil {
		return nil, apperror.ErrSessionRequired
	}
	return session, nil
}
