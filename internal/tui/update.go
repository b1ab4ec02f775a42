package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/store"
)

// categoriesMsg carries the category list (or its failure)
type categoriesMsg struct {
	categories []model.Category
	err        error
}

// productsMsg carries one products page. key is the cache key the fetch
// was issued for; responses for a key the user has moved away from are
// dropped instead of overwriting the current view.
type productsMsg struct {
	key      string
	products []model.Product
	hasMore  bool
	err      error
}

// searchMsg is a debounced search commit
type searchMsg struct {
	value string
}

// notifyChangedMsg repaints when the notification queue changed
type notifyChangedMsg struct{}

// favsLoadedMsg signals the favourites set was replaced
type favsLoadedMsg struct{ err error }

// checkoutMsg carries the checkout result
type checkoutMsg struct {
	order *model.Order
	err   error
}

// Init kicks off initial loads and the channel listeners
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadCategories(),
		m.loadProducts(),
		m.waitSearch(),
		m.waitNotify(),
	}
	if m.app.Session.IsAuthenticated() {
		cmds = append(cmds, m.loadFavourites())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := m.app.Categories.Get(context.Background(), "categories")
		return categoriesMsg{categories: categories, err: err}
	}
}

func (m Model) loadProducts() tea.Cmd {
	q := m.currentQuery()
	key := m.currentKey()
	return func() tea.Msg {
		page, err := m.app.FetchProducts(context.Background(), q)
		if err != nil {
			return productsMsg{key: key, err: err}
		}
		return productsMsg{key: key, products: page.Products, hasMore: page.HasMore()}
	}
}

func (m Model) loadFavourites() tea.Cmd {
	return func() tea.Msg {
		return favsLoadedMsg{err: m.app.Favs.Load(context.Background())}
	}
}

func (m Model) waitSearch() tea.Cmd {
	return func() tea.Msg {
		return searchMsg{value: <-m.searchCh}
	}
}

func (m Model) waitNotify() tea.Cmd {
	return func() tea.Msg {
		<-m.notifyCh
		return notifyChangedMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case categoriesMsg:
		if msg.err != nil {
			m.app.Notify.Error("Could not load categories: " + msg.err.Error())
			return m, nil
		}
		m.categories = msg.categories
		return m, nil

	case productsMsg:
		m.loading = false
		if msg.key != m.currentKey() {
			// Superseded query; its data already sits in the cache entry
			// for its own key, nothing to do here
			logger.Debug("Dropping stale products response", logger.F("key", msg.key))
			return m, nil
		}
		if msg.err != nil {
			m.app.Notify.Error("Could not load products: " + msg.err.Error())
			return m, nil
		}
		m.products = msg.products
		m.hasMore = msg.hasMore
		if m.prodCursor >= len(m.products) {
			m.prodCursor = 0
		}
		return m, nil

	case searchMsg:
		m.search = msg.value
		m.page = 1
		m.loading = true
		return m, tea.Batch(m.loadProducts(), m.waitSearch())

	case notifyChangedMsg:
		return m, m.waitNotify()

	case favsLoadedMsg:
		if msg.err != nil && msg.err != store.ErrNotAuthenticated {
			m.app.Notify.Error("Could not load favourites")
		}
		return m, nil

	case checkoutMsg:
		if msg.err != nil {
			m.app.Notify.Error("Checkout failed: " + msg.err.Error())
			return m, nil
		}
		m.app.Notify.Success(fmt.Sprintf("Order #%d placed, thank you!", msg.order.OrderID))
		m.pane = PaneProducts
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// updateSearch feeds keystrokes into the raw stage of the pipeline
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.debouncer.Set("")
		return m, nil
	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.debouncer.Flush()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.debouncer.Set(m.searchInput.Value())
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		m.pane = (m.pane + 1) % 3
		return m, nil

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, keys.Enter):
		if m.pane == PaneCategories {
			m.page = 1
			m.prodCursor = 0
			m.loading = true
			m.pane = PaneProducts
			return m, m.loadProducts()
		}
		if m.pane == PaneProducts {
			return m.addToCart()
		}
		return m, nil

	case key.Matches(msg, keys.AddCart):
		return m.addToCart()

	case key.Matches(msg, keys.Fav):
		return m.toggleFavourite()

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, keys.NextPage):
		if m.pane == PaneProducts && m.hasMore {
			m.page++
			m.loading = true
			return m, m.loadProducts()
		}
		return m, nil

	case key.Matches(msg, keys.PrevPage):
		if m.pane == PaneProducts && m.page > 1 {
			m.page--
			m.loading = true
			return m, m.loadProducts()
		}
		return m, nil

	case key.Matches(msg, keys.Remove):
		if m.pane == PaneCart {
			items := m.app.Cart.Items()
			if m.cartCursor < len(items) {
				m.app.Cart.Remove(items[m.cartCursor].ProductID)
				if m.cartCursor > 0 {
					m.cartCursor--
				}
			}
		}
		return m, nil

	case key.Matches(msg, keys.QtyUp):
		return m.bumpQuantity(1), nil

	case key.Matches(msg, keys.QtyDown):
		return m.bumpQuantity(-1), nil

	case key.Matches(msg, keys.Checkout):
		return m.checkout()

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		cacheKey := m.currentKey()
		return m, func() tea.Msg {
			page, err := m.app.Products.Refetch(context.Background(), cacheKey)
			if err != nil {
				return productsMsg{key: cacheKey, err: err}
			}
			return productsMsg{key: cacheKey, products: page.Products, hasMore: page.HasMore()}
		}

	case key.Matches(msg, keys.Logout):
		if m.app.Session.Token() == "" {
			m.app.Notify.Error("Not signed in")
			return m, nil
		}
		m.app.Logout(context.Background())
		m.app.Notify.Success("Signed out")
		return m, nil

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.pane {
	case PaneCategories:
		m.catCursor = clamp(m.catCursor+delta, 0, len(m.categories))
	case PaneProducts:
		m.prodCursor = clamp(m.prodCursor+delta, 0, len(m.products)-1)
	case PaneCart:
		m.cartCursor = clamp(m.cartCursor+delta, 0, m.app.Cart.Count()-1)
	}
}

func (m Model) addToCart() (tea.Model, tea.Cmd) {
	p := m.currentProduct()
	if p == nil {
		return m, nil
	}

	switch m.app.Cart.Add(*p) {
	case store.Added, store.Incremented:
		m.app.Notify.Success(fmt.Sprintf("%s added to cart", p.Name))
	case store.Capped:
		m.app.Notify.Error(fmt.Sprintf("Only %d of %s in stock", p.Stock, p.Name))
	}
	return m, nil
}

func (m Model) bumpQuantity(delta int) tea.Model {
	if m.pane != PaneCart {
		return m
	}
	items := m.app.Cart.Items()
	if m.cartCursor >= len(items) {
		return m
	}
	it := items[m.cartCursor]
	result := m.app.Cart.UpdateQuantity(it.ProductID, it.Quantity+delta)
	if result == store.Capped && delta > 0 {
		m.app.Notify.Error(fmt.Sprintf("Only %d of %s in stock", it.Stock, it.Name))
	}
	if result == store.Removed && m.cartCursor > 0 {
		m.cartCursor--
	}
	return m
}

func (m Model) toggleFavourite() (tea.Model, tea.Cmd) {
	p := m.currentProduct()
	if p == nil || m.pane != PaneProducts {
		return m, nil
	}
	if !m.app.Session.IsAuthenticated() {
		m.app.Notify.Error("Sign in to save favourites (voltmart auth login)")
		return m, nil
	}

	productID := p.ProductID
	name := p.Name
	// The notifier's change callback repaints for us; no message needed
	return m, func() tea.Msg {
		outcome, err := m.app.Favs.Toggle(context.Background(), productID)
		if err != nil {
			m.app.Notify.Error("Favourite update failed: " + err.Error())
			return nil
		}
		switch outcome {
		case store.ToggleAdded:
			m.app.Notify.Success(name + " favourited")
		case store.ToggleRemoved:
			m.app.Notify.Success(name + " removed from favourites")
		case store.ToggleReconciled:
			m.app.Notify.Success("Favourites re-synced with server")
		}
		return nil
	}
}

func (m Model) checkout() (tea.Model, tea.Cmd) {
	if m.app.Cart.Count() == 0 {
		m.app.Notify.Error("Cart is empty")
		return m, nil
	}
	if !m.app.Session.IsAuthenticated() {
		m.app.Notify.Error("Sign in to check out (voltmart auth login)")
		return m, nil
	}

	return m, func() tea.Msg {
		order, err := m.app.Checkout(context.Background(), 0)
		return checkoutMsg{order: order, err: err}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
