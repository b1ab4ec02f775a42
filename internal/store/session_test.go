package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/storage"
)

// newSession wires a session + client against srv, the way main does it
func newSession(t *testing.T, state *storage.Store, srvURL string) *Session {
	t.Helper()
	s := NewSession(state)
	s.SetClient(api.New(srvURL, s.Token))
	return s
}

func TestLoginStoresAndPersistsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"accessToken":"tok-1","user":{"id":7,"email":"a@b.c","username":"amps"}}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "state.json")
	s := newSession(t, storage.Open(path), srv.URL)

	require.NoError(t, s.Login(context.Background(), "amps", "secret"))
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, int64(7), s.User().ID)
	assert.False(t, s.IsLoading())

	// Token survives a restart; the user record does not
	restarted := NewSession(storage.Open(path))
	assert.Equal(t, "tok-1", restarted.Token())
	assert.Nil(t, restarted.User())
	assert.False(t, restarted.IsAuthenticated())
}

func TestLoginFailureKeepsSessionClear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	s := newSession(t, tempState(t), srv.URL)
	err := s.Login(context.Background(), "amps", "wrong")

	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, "", s.Token())
	assert.Nil(t, s.User())
	assert.EqualError(t, s.Err(), "invalid credentials")

	s.ClearError()
	assert.NoError(t, s.Err())
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signup", r.URL.Path)
		w.Write([]byte(`{"user":{"id":3,"email":"new@volt.example"}}`))
	}))
	defer srv.Close()

	s := newSession(t, tempState(t), srv.URL)
	user, err := s.Register(context.Background(), "New User", "new@volt.example", "newbie", "password1", "")

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "", s.Token())
	assert.False(t, s.IsAuthenticated())
}

func TestLogoutClearsStateEvenWhenNetworkFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken":"tok-1","user":{"id":7,"email":"a@b.c"}}`))
	}))

	path := filepath.Join(t.TempDir(), "state.json")
	state := storage.Open(path)
	s := newSession(t, state, srv.URL)
	require.NoError(t, s.Login(context.Background(), "amps", "secret"))

	// Server goes away before logout
	srv.Close()
	s.Logout(context.Background())

	assert.Equal(t, "", s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, "", storage.Open(path).GetString(storage.KeyAccessToken))
}

func TestRefreshReplacesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"old","user":{"id":7,"email":"a@b.c"}}`))
		case "/auth/refresh":
			w.Write([]byte(`{"accessToken":"new"}`))
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "state.json")
	s := newSession(t, storage.Open(path), srv.URL)
	require.NoError(t, s.Login(context.Background(), "amps", "secret"))

	require.NoError(t, s.RefreshAccessToken(context.Background()))
	assert.Equal(t, "new", s.Token())
	assert.Equal(t, int64(7), s.User().ID, "user record survives a refresh")
	assert.Equal(t, "new", storage.Open(path).GetString(storage.KeyAccessToken))
}

func TestRefreshFailureClearsWholeSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"old","user":{"id":7,"email":"a@b.c"}}`))
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"refresh expired"}`))
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "state.json")
	s := newSession(t, storage.Open(path), srv.URL)
	require.NoError(t, s.Login(context.Background(), "amps", "secret"))

	err := s.RefreshAccessToken(context.Background())
	require.Error(t, err, "failure must propagate so callers can redirect to login")
	assert.Equal(t, "", s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, "", storage.Open(path).GetString(storage.KeyAccessToken))
}
