package store

import (
	"context"
	"errors"
	"sync"

	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/storage"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user
var ErrNotAuthenticated = errors.New("please sign in first")

// Session owns the access token and the authenticated identity. The token
// is rehydrated from the state file at construction, which means a token
// can be present while the user record is still unresolved; everything
// downstream tolerates that.
type Session struct {
	mu     sync.Mutex
	client *api.Client
	state  *storage.Store

	accessToken string
	user        *model.User
	loading     bool
	lastErr     error
}

// NewSession creates a session store, loading any persisted token. Bind the
// API client afterwards; the client's token source should call Token so a
// refresh is picked up by requests already queued behind it.
func NewSession(state *storage.Store) *Session {
	s := &Session{state: state}
	s.accessToken = state.GetString(storage.KeyAccessToken)
	return s
}

// SetClient binds the API client used for auth calls
func (s *Session) SetClient(client *api.Client) {
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
}

// Token returns the current access token ("" when signed out). Safe to use
// as the client's TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// User returns the authenticated user, or nil
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a user record has been resolved
func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// IsLoading reports whether an auth request is in flight. Login is not
// deduplicated; callers use this to block re-entrant submission.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last auth error, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError clears the transient error field only
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// Login authenticates with an email-or-username identifier. On success the
// token is stored and persisted alongside the user record.
func (s *Session) Login(ctx context.Context, identifier, password string) error {
	s.mu.Lock()
	client := s.client
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	token, user, err := client.Login(ctx, identifier, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		logger.Warn("login failed", logger.F("error", err))
		return err
	}

	s.accessToken = token
	s.user = user
	if perr := s.state.Set(storage.KeyAccessToken, token); perr != nil {
		logger.Warn("failed to persist access token", logger.F("error", perr))
	}
	logger.Info("logged in", logger.F("user", user.ID))
	return nil
}

// Register creates an account. It does not authenticate; the caller sends
// the user to login afterwards.
func (s *Session) Register(ctx context.Context, name, email, username, password, phone string) (*model.User, error) {
	s.mu.Lock()
	client := s.client
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	user, err := client.Register(ctx, name, email, username, password, phone)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	return user, nil
}

// Logout tells the server to drop the refresh credential, then clears local
// state regardless of whether that call went through.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if err := client.Logout(ctx); err != nil {
		// Best effort only. The local session dies either way.
		logger.Debug("logout request failed", logger.F("error", err))
	}

	s.clearLocal()
	logger.Info("logged out")
}

// RefreshAccessToken trades the refresh credential for a fresh token. On
// failure the whole session is cleared and the error propagates so callers
// can redirect to login.
func (s *Session) RefreshAccessToken(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	token, err := client.Refresh(ctx)
	if err != nil {
		s.clearLocal()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	if perr := s.state.Set(storage.KeyAccessToken, token); perr != nil {
		logger.Warn("failed to persist access token", logger.F("error", perr))
	}
	return nil
}

// SetUser records the resolved identity for a rehydrated token
func (s *Session) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Session) clearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.user = nil
	if err := s.state.Delete(storage.KeyAccessToken); err != nil {
		logger.Warn("failed to remove persisted token", logger.F("error", err))
	}
}
