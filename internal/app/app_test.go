package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/config"
	"github.com/voltmart/voltmart/internal/model"
)

func newApp(t *testing.T, srvURL string) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ServerURL = srvURL
	cfg.PageSize = 2
	return New(cfg, filepath.Join(t.TempDir(), "state.json"))
}

func TestProductKeyRoundTrip(t *testing.T) {
	q := api.ProductQuery{CategoryID: 3, Search: "tower ups", Page: 2, Limit: 10}
	assert.Equal(t, q, ParseProductKey(ProductKey(q)))

	// Different tuples produce different keys
	assert.NotEqual(t, ProductKey(q), ProductKey(api.ProductQuery{CategoryID: 4, Search: "tower ups", Page: 2, Limit: 10}))
	assert.Equal(t, api.ProductQuery{}, ParseProductKey(""))
}

func TestCheckoutClearsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"t","user":{"id":1,"email":"a@b.c"}}`))
		case "/orders":
			require.Equal(t, "Bearer t", r.Header.Get("Authorization"))
			w.Write([]byte(`{"order_id":55,"items_total":2500,"shipping":200,"grand_total":2700}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := newApp(t, srv.URL)
	require.NoError(t, a.Session.Login(context.Background(), "a@b.c", "pw"))

	p1 := model.Product{ProductID: 1, Name: "P1", Price: 1000, Stock: 2}
	p2 := model.Product{ProductID: 2, Name: "P2", Price: 500, Stock: 1}
	a.Cart.Add(p1)
	a.Cart.Add(p1)
	a.Cart.Add(p2)
	require.InDelta(t, 2700, a.Cart.GrandTotal(), 0.001)

	order, err := a.Checkout(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(55), order.OrderID)
	assert.Zero(t, a.Cart.Count(), "successful order submission clears the cart")
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"t","user":{"id":1,"email":"a@b.c"}}`))
		default:
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"insufficient stock"}`))
		}
	}))
	defer srv.Close()

	a := newApp(t, srv.URL)
	require.NoError(t, a.Session.Login(context.Background(), "a@b.c", "pw"))
	a.Cart.Add(model.Product{ProductID: 1, Name: "P1", Price: 1000, Stock: 2})

	_, err := a.Checkout(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 1, a.Cart.Count())
}

func TestCheckoutRequiresAuthAndItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken":"t","user":{"id":1,"email":"a@b.c"}}`))
	}))
	defer srv.Close()

	a := newApp(t, srv.URL)
	_, err := a.Checkout(context.Background(), 0)
	require.Error(t, err, "unauthenticated checkout refused")

	require.NoError(t, a.Session.Login(context.Background(), "a@b.c", "pw"))
	_, err = a.Checkout(context.Background(), 0)
	require.Error(t, err, "empty cart refused")
}

func TestLogoutClearsFavourites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"t","user":{"id":1,"email":"a@b.c"}}`))
		case "/favourites/1":
			w.Write([]byte(`[{"product_id":4,"created_at":"2026-01-01"}]`))
		default:
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	a := newApp(t, srv.URL)
	require.NoError(t, a.Session.Login(context.Background(), "a@b.c", "pw"))
	require.NoError(t, a.Favs.Load(context.Background()))
	require.Equal(t, 1, a.Favs.Count())

	a.Logout(context.Background())
	assert.Zero(t, a.Favs.Count())
	assert.False(t, a.Session.IsAuthenticated())
}
