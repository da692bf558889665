package stores

import (
	"context"
	"sync"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/storage"
	apperrors "ianct-client/pkg/errors"

	"go.uber.org/zap"
)

// AuthStore is the admin console session. Holding a token is what makes
// the admin authenticated; the profile is fetched lazily by the guard.
type AuthStore struct {
	api      AdminAuthClient
	tokens   storage.Store
	tokenKey string
	logger   *zap.Logger

	mu      sync.RWMutex
	token   string
	user    *models.UserProfile
	loading bool
}

// NewAuthStore reads the persisted token under tokenKey.
func NewAuthStore(client AdminAuthClient, tokens storage.Store, tokenKey string, logger *zap.Logger) *AuthStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthStore{
		api:      client,
		tokens:   tokens,
		tokenKey: tokenKey,
		logger:   logger.Named("auth"),
	}
	s.token = s.readToken()
	return s
}

func (s *AuthStore) readToken() string {
	token, err := s.tokens.Get(s.tokenKey)
	if err != nil {
		s.logger.Warn("Failed to read stored token", zap.Error(err))
		return ""
	}
	return token
}

// Login posts credentials, persists the returned token and loads the
// profile.
func (s *AuthStore) Login(ctx context.Context, req models.LoginRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed"
		}
		return apperrors.NewUnauthorizedError(msg)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.mu.Unlock()
	if err := s.tokens.Set(s.tokenKey, resp.Token); err != nil {
		s.logger.Warn("Failed to persist token", zap.Error(err))
	}

	s.logger.Info("Signed in", zap.String("username", req.Username))
	return s.FetchProfile(ctx)
}

// FetchProfile loads the profile for the current token. Without a token it
// does nothing; on failure it logs out and returns the error.
func (s *AuthStore) FetchProfile(ctx context.Context) error {
	if !s.HasToken() {
		return nil
	}
	user, err := s.api.Current(ctx)
	if err != nil {
		s.logger.Info("Profile fetch failed, signing out", zap.Error(err))
		s.Logout()
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// LoadProfile lets the route guard drive FetchProfile.
func (s *AuthStore) LoadProfile(ctx context.Context) error {
	return s.FetchProfile(ctx)
}

// Logout clears the session and the persisted token.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	if err := s.tokens.Delete(s.tokenKey); err != nil {
		s.logger.Warn("Failed to delete stored token", zap.Error(err))
	}
}

// Reload re-reads the persisted token and drops the cached profile.
func (s *AuthStore) Reload() {
	token := s.readToken()
	s.mu.Lock()
	s.token = token
	s.user = nil
	s.loading = false
	s.mu.Unlock()
}

func (s *AuthStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *AuthStore) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAuthenticated is the same as HasToken for the admin console.
func (s *AuthStore) IsAuthenticated() bool {
	return s.HasToken()
}

func (s *AuthStore) HasProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the profile, or nil.
func (s *AuthStore) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Claims decodes the current token for display.
func (s *AuthStore) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("not signed in")
	}
	return parseClaims(token)
}
