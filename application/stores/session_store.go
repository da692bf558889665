package stores

import (
	"context"
	"sync"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/storage"
	apperrors "ianct-client/pkg/errors"
	"ianct-client/pkg/validation"

	"go.uber.org/zap"
)

// Fallback messages when the backend gives none.
const (
	msgRegisterFailed = "registration failed"
	msgLoginFailed    = "login failed"
	msgEmailUpdated   = "email updated"
	msgEmailFailed    = "email update failed"
	msgPasswordOK     = "password updated"
	msgPasswordFailed = "password change failed"
)

// SessionStore is the workspace session. Unlike the admin console, a
// stored token alone does not authenticate: the profile must load first.
type SessionStore struct {
	auth     SessionAuthClient
	profile  ProfileClient
	tokens   storage.Store
	tokenKey string
	logger   *zap.Logger

	mu            sync.RWMutex
	token         string
	user          *models.UserProfile
	authenticated bool
}

func NewSessionStore(auth SessionAuthClient, profile ProfileClient, tokens storage.Store, tokenKey string, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionStore{
		auth:     auth,
		profile:  profile,
		tokens:   tokens,
		tokenKey: tokenKey,
		logger:   logger.Named("session"),
	}
	s.token = s.readToken()
	return s
}

func (s *SessionStore) readToken() string {
	token, err := s.tokens.Get(s.tokenKey)
	if err != nil {
		s.logger.Warn("Failed to read stored token", zap.Error(err))
		return ""
	}
	return token
}

func (s *SessionStore) Register(ctx context.Context, req models.RegisterRequest) Result {
	if err := validation.Struct(req); err != nil {
		return failed(validation.Message(err))
	}
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return failed(apperrors.ServerMessage(err, msgRegisterFailed))
	}
	return s.accept(resp)
}

func (s *SessionStore) Login(ctx context.Context, req models.LoginRequest) Result {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return failed(apperrors.ServerMessage(err, msgLoginFailed))
	}
	return s.accept(resp)
}

// accept starts a session from a login or register response. A 2xx
// response without a token is a refusal carrying the server's message.
func (s *SessionStore) accept(resp *models.AuthResponse) Result {
	if resp.Token == "" {
		return failed(resp.Message)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &models.UserProfile{Username: resp.Username, Email: resp.Email}
	s.authenticated = true
	s.mu.Unlock()

	if err := s.tokens.Set(s.tokenKey, resp.Token); err != nil {
		s.logger.Warn("Failed to persist token", zap.Error(err))
	}
	s.logger.Info("Signed in", zap.String("username", resp.Username))
	return Result{Success: true, Message: resp.Message}
}

// LoadUser fetches the profile for the stored token and marks the session
// authenticated. On failure it logs out.
func (s *SessionStore) LoadUser(ctx context.Context) error {
	if s.Token() == "" {
		return nil
	}
	user, err := s.profile.Me(ctx)
	if err != nil {
		s.logger.Info("Profile fetch failed, signing out", zap.Error(err))
		s.Logout()
		return err
	}
	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// LoadProfile lets the route guard drive LoadUser.
func (s *SessionStore) LoadProfile(ctx context.Context) error {
	return s.LoadUser(ctx)
}

func (s *SessionStore) UpdateEmail(ctx context.Context, email string) Result {
	req := models.UpdateEmailRequest{Email: email}
	if err := validation.Struct(req); err != nil {
		return failed(validation.Message(err))
	}
	user, err := s.profile.UpdateEmail(ctx, req)
	if err != nil {
		return failed(apperrors.ServerMessage(err, msgEmailFailed))
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return Result{Success: true, Message: msgEmailUpdated}
}

func (s *SessionStore) ChangePassword(ctx context.Context, req models.UpdatePasswordRequest) Result {
	if err := validation.Struct(req); err != nil {
		return failed(validation.Message(err))
	}
	resp, err := s.profile.ChangePassword(ctx, req)
	if err != nil {
		return failed(apperrors.ServerMessage(err, msgPasswordFailed))
	}
	if resp != nil && resp.Message != "" {
		return Result{Success: true, Message: resp.Message}
	}
	return Result{Success: true, Message: msgPasswordOK}
}

// Logout clears the session and the persisted token.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
	if err := s.tokens.Delete(s.tokenKey); err != nil {
		s.logger.Warn("Failed to delete stored token", zap.Error(err))
	}
}

// Reload re-reads the persisted token. The session has to be proven again
// by LoadUser.
func (s *SessionStore) Reload() {
	token := s.readToken()
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) HasToken() bool {
	return s.Token() != ""
}

func (s *SessionStore) HasProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns a copy of the profile, or nil.
func (s *SessionStore) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Claims decodes the current token for display.
func (s *SessionStore) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("not signed in")
	}
	return parseClaims(token)
}
