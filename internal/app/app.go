package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/config"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/storage"
	"github.com/voltmart/voltmart/internal/store"
)

// App wires the stores together. Everything is constructed explicitly and
// passed by reference to the views that need it; nothing here is a
// package-level singleton, so tests can build as many independent
// instances as they like.
type App struct {
	Config  *config.Config
	State   *storage.Store
	Client  *api.Client
	Session *store.Session
	Cart    *store.Cart
	Favs    *store.Favourites
	Notify  *store.Notifier

	Categories *store.QueryCache[[]model.Category]
	Products   *store.QueryCache[*api.ProductPage]
	Services   *store.QueryCache[[]model.Service]
}

// New builds a fully wired App against cfg.ServerURL, rehydrating the
// token and cart from the state file at path.
func New(cfg *config.Config, statePath string) *App {
	state := storage.Open(statePath)
	session := store.NewSession(state)
	client := api.New(cfg.ServerURL, session.Token)
	session.SetClient(client)

	a := &App{
		Config:  cfg,
		State:   state,
		Client:  client,
		Session: session,
		Cart:    store.NewCart(state),
		Favs:    store.NewFavourites(client, session),
		Notify:  store.NewNotifier(),
	}

	a.Categories = store.NewQueryCache(store.CatalogStaleAfter,
		func(ctx context.Context, key string) ([]model.Category, error) {
			return client.Categories(ctx)
		})
	a.Services = store.NewQueryCache(store.CatalogStaleAfter,
		func(ctx context.Context, key string) ([]model.Service, error) {
			return client.Services(ctx)
		})
	a.Products = store.NewQueryCache(store.ProductsStaleAfter,
		func(ctx context.Context, key string) (*api.ProductPage, error) {
			return client.Products(ctx, ParseProductKey(key))
		})

	return a
}

// NewDefault builds an App from the loaded config and default state path
func NewDefault(cfg *config.Config) (*App, error) {
	statePath, err := storage.DefaultPath()
	if err != nil {
		return nil, err
	}
	return New(cfg, statePath), nil
}

// ProductKey encodes a product query into its cache key. The key is the
// full parameter tuple, so two different queries never share an entry.
func ProductKey(q api.ProductQuery) string {
	v := url.Values{}
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v.Encode()
}

// ParseProductKey decodes a cache key back into the query it encodes
func ParseProductKey(key string) api.ProductQuery {
	v, err := url.ParseQuery(key)
	if err != nil {
		return api.ProductQuery{}
	}
	q := api.ProductQuery{Search: v.Get("search")}
	q.CategoryID, _ = strconv.ParseInt(v.Get("categoryId"), 10, 64)
	q.Page, _ = strconv.Atoi(v.Get("page"))
	q.Limit, _ = strconv.Atoi(v.Get("limit"))
	return q
}

// FetchProducts loads one page of products through the query cache
func (a *App) FetchProducts(ctx context.Context, q api.ProductQuery) (*api.ProductPage, error) {
	if q.Limit <= 0 {
		q.Limit = a.Config.PageSize
	}
	return a.Products.Get(ctx, ProductKey(q))
}

// FindProduct locates a product by id by paging through the catalog. The
// backend has no by-id endpoint, so this walks pages up to a sane bound.
func (a *App) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	const maxPages = 50
	for page := 1; page <= maxPages; page++ {
		pg, err := a.FetchProducts(ctx, api.ProductQuery{Page: page, Limit: a.Config.PageSize})
		if err != nil {
			return nil, err
		}
		for i := range pg.Products {
			if pg.Products[i].ProductID == productID {
				return &pg.Products[i], nil
			}
		}
		if !pg.HasMore() {
			break
		}
	}
	return nil, fmt.Errorf("product %d not found", productID)
}

// Checkout places an order for the current cart contents and clears the
// cart on success.
func (a *App) Checkout(ctx context.Context, addressID int64) (*model.Order, error) {
	if !a.Session.IsAuthenticated() {
		return nil, store.ErrNotAuthenticated
	}
	items := a.Cart.OrderItems()
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	order, err := a.Client.CreateOrder(ctx, api.OrderRequest{
		Items:     items,
		AddressID: addressID,
	})
	if err != nil {
		return nil, err
	}

	a.Cart.Clear()
	return order, nil
}

// Logout tears down the session and everything keyed to the user
func (a *App) Logout(ctx context.Context) {
	a.Session.Logout(ctx)
	a.Favs.ClearLocal()
}
