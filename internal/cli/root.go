package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/voltmart/voltmart/internal/app"
	"github.com/voltmart/voltmart/internal/config"
	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/tui"
)

var (
	serverURL  string
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "voltmart",
	Short: "VoltMart - terminal storefront for UPS systems and services",
	Long: `VoltMart is a terminal client for the VoltMart store: browse the UPS
catalog, manage a cart, keep favourites, book services and place orders.

Run 'voltmart' without arguments to launch the interactive storefront.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = serverURL
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole
		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		loadedConfig = cfg
		logger.Info("VoltMart started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewDefault(loadedConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		logger.Info("Launching storefront TUI")
		m := tui.NewModel(a)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run storefront: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("VoltMart exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// loadedConfig is the config resolved by PersistentPreRunE, shared by
// subcommands.
var loadedConfig *config.Config

// newApp builds a wired App for a subcommand
func newApp() (*app.App, error) {
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return app.NewDefault(cfg)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend API base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(feedbackCmd)
}
