package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/app"
	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/store"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneCategories Pane = iota
	PaneProducts
	PaneCart
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeHelp
)

// Model is the storefront TUI model. It composes the stores through their
// operations only; no rendering state leaks back into them.
type Model struct {
	app *app.App

	// Catalog state
	categories []model.Category
	products   []model.Product
	page       int
	hasMore    bool
	loading    bool

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	catCursor  int // 0 = "All products"
	prodCursor int
	cartCursor int

	// Search pipeline: keystrokes feed the debouncer, committed values
	// arrive through searchCh and only then touch the cache key
	searchInput textinput.Model
	debouncer   *store.Debouncer
	searchCh    chan string
	search      string // committed search text

	// Repaint signal for notification expiry
	notifyCh chan struct{}
}

// NewModel creates the storefront model around a wired App
func NewModel(a *app.App) Model {
	logger.Info("Initializing storefront model")

	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.CharLimit = 128
	ti.Width = 40

	m := Model{
		app:         a,
		page:        1,
		searchInput: ti,
		searchCh:    make(chan string, 1),
		notifyCh:    make(chan struct{}, 1),
	}

	m.debouncer = store.NewDebouncer(store.SearchDebounce, func(v string) {
		// Non-blocking: a pending older commit is superseded anyway
		select {
		case m.searchCh <- v:
		default:
		}
	})

	a.Notify.SetOnChange(func() {
		select {
		case m.notifyCh <- struct{}{}:
		default:
		}
	})

	return m
}

// selectedCategory returns the focused category id, 0 for "All products"
func (m *Model) selectedCategory() int64 {
	if m.catCursor <= 0 || m.catCursor > len(m.categories) {
		return 0
	}
	return m.categories[m.catCursor-1].CategoryID
}

// currentQuery is the full parameter tuple for the products view
func (m *Model) currentQuery() api.ProductQuery {
	return api.ProductQuery{
		CategoryID: m.selectedCategory(),
		Search:     m.search,
		Page:       m.page,
		Limit:      m.app.Config.PageSize,
	}
}

// currentKey is the cache key the products pane is showing
func (m *Model) currentKey() string {
	return app.ProductKey(m.currentQuery())
}

func (m *Model) currentProduct() *model.Product {
	if m.prodCursor < 0 || m.prodCursor >= len(m.products) {
		return nil
	}
	return &m.products[m.prodCursor]
}
