package store

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/model"
)

// favServer scripts the favourites endpoints: toggle answers with the
// next status in the list, the list endpoint serves serverIDs.
type favServer struct {
	statuses  []string
	toggles   int
	serverIDs []int64
}

func (f *favServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/favourites/toggle":
			status := f.statuses[f.toggles%len(f.statuses)]
			f.toggles++
			fmt.Fprintf(w, `{"result":{"status":%q}}`, status)
		case r.Method == http.MethodGet:
			w.Write([]byte("["))
			for i, id := range f.serverIDs {
				if i > 0 {
					w.Write([]byte(","))
				}
				fmt.Fprintf(w, `{"product_id":%d,"created_at":"2026-01-01"}`, id)
			}
			w.Write([]byte("]"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newFavourites(t *testing.T, srvURL string, authed bool) *Favourites {
	t.Helper()
	s := NewSession(tempState(t))
	client := api.New(srvURL, s.Token)
	s.SetClient(client)
	if authed {
		s.SetUser(&model.User{ID: 9, Email: "a@b.c"})
	}
	return NewFavourites(client, s)
}

func TestToggleRequiresUser(t *testing.T) {
	fs := &favServer{statuses: []string{"added"}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	f := newFavourites(t, srv.URL, false)
	_, err := f.Toggle(context.Background(), 4)

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, fs.toggles, "no server call without a user")
}

func TestToggleEvenTimesRestoresMembership(t *testing.T) {
	fs := &favServer{statuses: []string{"added", "removed"}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	f := newFavourites(t, srv.URL, true)
	require.False(t, f.IsFavourite(4))

	for i := 0; i < 4; i++ {
		_, err := f.Toggle(context.Background(), 4)
		require.NoError(t, err)
	}
	assert.False(t, f.IsFavourite(4), "even number of toggles returns to the original state")

	outcome, err := f.Toggle(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, ToggleAdded, outcome)
	assert.True(t, f.IsFavourite(4))
}

func TestToggleAddedIsIdempotent(t *testing.T) {
	fs := &favServer{statuses: []string{"added"}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	f := newFavourites(t, srv.URL, true)
	for i := 0; i < 3; i++ {
		_, err := f.Toggle(context.Background(), 4)
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{4}, f.IDs(), "no duplicate entries")
}

func TestAmbiguousStatusReconciles(t *testing.T) {
	fs := &favServer{statuses: []string{"pending?"}, serverIDs: []int64{4, 11}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	f := newFavourites(t, srv.URL, true)
	outcome, err := f.Toggle(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, ToggleReconciled, outcome)
	// Final state equals a fresh load, not a guess
	assert.Equal(t, []int64{4, 11}, f.IDs())
}

func TestAbsentStatusReconciles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"result":{}}`))
			return
		}
		w.Write([]byte(`[{"product_Id":8,"created_at":"2026-01-01"}]`))
	}))
	defer srv.Close()

	f := newFavourites(t, srv.URL, true)
	outcome, err := f.Toggle(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, ToggleReconciled, outcome)
	assert.Equal(t, []int64{8}, f.IDs())
}

func TestToggleTransportFailureLeavesStateAlone(t *testing.T) {
	fs := &favServer{statuses: []string{"added"}, serverIDs: []int64{4}}
	srv := httptest.NewServer(fs.handler())

	f := newFavourites(t, srv.URL, true)
	_, err := f.Toggle(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, f.IsFavourite(4))

	srv.Close()
	_, err = f.Toggle(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, f.IsFavourite(4), "failed toggle must not mutate local state")
}

func TestLoadFailSafeEmpty(t *testing.T) {
	fs := &favServer{statuses: []string{"added"}, serverIDs: []int64{4}}
	srv := httptest.NewServer(fs.handler())

	f := newFavourites(t, srv.URL, true)
	require.NoError(t, f.Load(context.Background()))
	require.Equal(t, []int64{4}, f.IDs())

	srv.Close()
	require.Error(t, f.Load(context.Background()))
	assert.Empty(t, f.IDs(), "failed load resets to empty rather than keeping stale state")
}

func TestClearLocalOnLogout(t *testing.T) {
	fs := &favServer{statuses: []string{"added"}, serverIDs: []int64{4, 5}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	f := newFavourites(t, srv.URL, true)
	require.NoError(t, f.Load(context.Background()))
	require.Equal(t, 2, f.Count())

	f.ClearLocal()
	assert.Zero(t, f.Count())
}

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{int64(5), 5, true},
		{7, 7, true},
		{float64(9), 9, true},
		{"12", 12, true},
		{"not a number", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := NormalizeID(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
