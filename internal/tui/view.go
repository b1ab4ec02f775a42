package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/voltmart/voltmart/internal/store"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	var main string
	if m.pane == PaneCart {
		main = m.renderCart()
	} else {
		main = m.renderProducts()
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	if m.mode == ModeSearch {
		modal := ModalStyle.Render("Search\n\n" + m.searchInput.View() + "\n\n" + HelpStyle.Render("enter apply · esc clear"))
		content = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		content = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderSidebar() string {
	var s string
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("VoltMart") + "\n"
	s += MutedStyle.Render("UPS systems & services") + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render("────────────────────") + "\n\n"

	render := func(i int, name string) {
		cursor := "  "
		style := ItemStyle
		if i == m.catCursor {
			cursor = "❯ "
			if m.pane == PaneCategories {
				style = ItemSelectedStyle
			}
		}
		s += style.Render(cursor+truncate(name, 16)) + "\n"
	}

	render(0, "All products")
	for i, c := range m.categories {
		render(i+1, c.Name)
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render("────────────────────") + "\n"
	if m.app.Session.IsAuthenticated() {
		s += MutedStyle.Render(truncate(m.app.Session.User().Email, 20))
	} else if m.app.Session.Token() != "" {
		s += MutedStyle.Render("signed in (unconfirmed)")
	} else {
		s += MutedStyle.Render("not signed in")
	}

	return SidebarStyle.Height(m.height - 2).Render(s)
}

func (m Model) renderProducts() string {
	width := m.width - 26
	var s string

	header := "All products"
	if id := m.selectedCategory(); id != 0 {
		for _, c := range m.categories {
			if c.CategoryID == id {
				header = c.Name
			}
		}
	}
	if m.search != "" {
		header += fmt.Sprintf(" · %q", m.search)
	}
	header += fmt.Sprintf(" · page %d", m.page)
	if m.loading {
		header += " · loading..."
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n"

	if len(m.products) == 0 && !m.loading {
		s += HelpStyle.Render("  Nothing here. '/' to search, enter on a category to browse.")
	}

	for i, p := range m.products {
		cursor := "  "
		style := ItemStyle
		if i == m.prodCursor && m.pane == PaneProducts {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		fav := "  "
		if m.app.Favs.IsFavourite(p.ProductID) {
			fav = lipgloss.NewStyle().Foreground(Favourite).Render("♥ ")
		}

		stock := lipgloss.NewStyle().Foreground(StockOK).Render(fmt.Sprintf("%d in stock", p.Stock))
		if !p.InStock() {
			stock = lipgloss.NewStyle().Foreground(StockOut).Render("out of stock")
		} else if p.LowStock() {
			stock = lipgloss.NewStyle().Foreground(StockLow).Render(fmt.Sprintf("only %d left", p.Stock))
		}

		line := fmt.Sprintf("%s%s%-34s %s %s",
			cursor, fav, truncate(p.Name, 34),
			PriceStyle.Render(fmt.Sprintf("%10.2f", p.Price)),
			stock)
		s += style.Render(line) + "\n"
	}

	if m.hasMore {
		s += "\n" + HelpStyle.Render("  n: next page")
	}

	return ListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderCart() string {
	width := m.width - 26
	var s string

	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Your cart") + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n"

	items := m.app.Cart.Items()
	if len(items) == 0 {
		s += HelpStyle.Render("  Cart is empty. 'a' on a product to add it.")
	}

	for i, it := range items {
		cursor := "  "
		style := ItemStyle
		if i == m.cartCursor && m.pane == PaneCart {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		line := fmt.Sprintf("%s%-32s %2d × %9.2f = %10.2f",
			cursor, truncate(it.Name, 32), it.Quantity, it.Price, it.LineTotal())
		s += style.Render(line) + "\n"
	}

	if len(items) > 0 {
		s += "\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n"
		s += fmt.Sprintf("  Items     %10.2f\n", m.app.Cart.Total())
		shipping := "free"
		if fee := m.app.Cart.Shipping(); fee > 0 {
			shipping = fmt.Sprintf("%10.2f", fee)
		}
		s += fmt.Sprintf("  Shipping  %10s\n", shipping)
		s += PriceStyle.Render(fmt.Sprintf("  Total     %10.2f", m.app.Cart.GrandTotal())) + "\n"
		s += "\n" + HelpStyle.Render("  +/- quantity · x remove · C checkout")
	}

	return ListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("cart: %d item(s) · %.2f", m.app.Cart.Count(), m.app.Cart.Total())

	note := ""
	if latest := m.app.Notify.Latest(); latest != nil {
		style := SuccessStyle
		if latest.Kind == store.KindError {
			style = ErrorStyle
		}
		note = style.Render(" " + latest.Message + " ")
	}

	help := HelpStyle.Render("tab panes · ? help · q quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(note) - lipgloss.Width(help) - 4
	if gap < 1 {
		gap = 1
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + note + help)
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"↑/k ↓/j", "move"},
		{"tab", "cycle panes (categories, products, cart)"},
		{"enter", "open category / add product to cart"},
		{"a", "add product to cart"},
		{"f", "toggle favourite"},
		{"/", "search (debounced)"},
		{"n / p", "next / previous page"},
		{"x", "remove cart line"},
		{"+ / -", "change quantity"},
		{"C", "checkout"},
		{"R", "refresh current listing"},
		{"L", "logout"},
		{"q", "quit"},
	}

	var s string
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("VoltMart keys") + "\n\n"
	for _, r := range rows {
		s += fmt.Sprintf("  %-8s %s\n", r[0], r[1])
	}
	s += "\n" + HelpStyle.Render("press any key to close")

	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, ModalStyle.Render(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
