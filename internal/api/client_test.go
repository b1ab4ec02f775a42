package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusErrorUsesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, _, err := c.Login(context.Background(), "nobody", "wrong")

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestStatusErrorSynthesizedForNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Categories(context.Background())

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestNonJSONSuccessBodyIsBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Categories(context.Background())

	require.ErrorIs(t, err, ErrBadResponse)
}

func TestNetworkFailureIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(srv.URL, nil)
	_, err := c.Categories(context.Background())

	require.ErrorIs(t, err, ErrUnreachable)
}

func TestBearerTokenReadAtCallTime(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{"categories":[]}`))
	}))
	defer srv.Close()

	token := "first"
	c := New(srv.URL, func() string { return token })

	_, err := c.Categories(context.Background())
	require.NoError(t, err)
	token = "second"
	_, err = c.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestProductsEnvelopeShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("categoryId"))
		assert.Equal(t, "ups", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"products":[{"product_id":1,"name":"Tower 1500VA","price":1200,"stock":4}],"total":11,"page":2,"limit":10}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.Products(context.Background(), ProductQuery{CategoryID: 3, Search: "ups", Page: 2, Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Products, 1)
	assert.Equal(t, "Tower 1500VA", page.Products[0].Name)
	assert.True(t, page.ExactTotal)
	assert.Equal(t, 11, page.Total)
	assert.False(t, page.HasMore()) // 2*10 >= 11
}

func TestProductsBareArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"product_id":1,"name":"A","price":10,"stock":1},{"product_id":2,"name":"B","price":20,"stock":1}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.Products(context.Background(), ProductQuery{Page: 1, Limit: 2})
	require.NoError(t, err)

	require.Len(t, page.Products, 2)
	assert.False(t, page.ExactTotal)
	// Full page without an exact total: assume more pages exist
	assert.True(t, page.HasMore())
}

func TestProductsPartialPageHasNoMore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"product_id":1,"name":"A","price":10,"stock":1}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.Products(context.Background(), ProductQuery{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.False(t, page.HasMore())
}

func TestFavouritesToleratesIDCasing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/favourites/9", r.URL.Path)
		w.Write([]byte(`[{"product_Id":4,"created_at":"2026-01-01"},{"product_id":7,"created_at":"2026-01-02"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ids, err := c.Favourites(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 7}, ids)
}

func TestToggleFavouriteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"status":"added"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	status, err := c.ToggleFavourite(context.Background(), 9, 4)
	require.NoError(t, err)
	assert.Equal(t, ToggleStatusAdded, status)
}

func TestToggleFavouriteAbsentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	status, err := c.ToggleFavourite(context.Background(), 9, 4)
	require.NoError(t, err)
	assert.Equal(t, "", status)
}

func TestServicesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/available", r.URL.Path)
		w.Write([]byte(`{"services":[{"service_id":1,"service_name":"Battery replacement","price":450}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Battery replacement", services[0].ServiceName)
}
