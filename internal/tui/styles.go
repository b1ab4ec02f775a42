package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Stock status colors
	StockOK   = lipgloss.Color("#95E1A3") // Green
	StockLow  = lipgloss.Color("#FFB347") // Orange
	StockOut  = lipgloss.Color("#FF6B6B") // Red
	Favourite = lipgloss.Color("#FF6B9D") // Pink heart

	// UI colors
	Primary   = lipgloss.Color("#FFE66D") // VoltMart yellow
	Secondary = lipgloss.Color("#6C757D")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")

	// Notification colors
	NotifySuccess = lipgloss.Color("#95E1A3")
	NotifyError   = lipgloss.Color("#FF6B6B")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	SidebarStyle = lipgloss.NewStyle().
			Width(24).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(Highlight)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	PriceStyle = lipgloss.NewStyle().
			Foreground(Primary)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(lipgloss.Color("#16213e")).
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(1, 2)

	SuccessStyle = lipgloss.NewStyle().Foreground(NotifySuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(NotifyError)
	HelpStyle    = lipgloss.NewStyle().Foreground(TextMuted)
)
