// Package cli provides the command-line interface for the momentum bot.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"momentum-trader/internal/calendar"
	"momentum-trader/internal/config"
	"momentum-trader/internal/marketdata"
	"momentum-trader/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-09-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Prices   marketdata.PriceSource
	Bars     marketdata.BarSource
	Sessions *calendar.Resolver
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Prices = marketdata.NewGoogleFinanceSource(cfg.Data.QuoteBaseURL, cfg.Data.RequestTimeout)
	app.Bars = marketdata.NewNSEBhavcopySource(cfg.Data.BhavcopyBaseURL, cfg.Data.RequestTimeout)
	app.Sessions = calendar.NewResolver(
		marketdata.NewNSEHolidayProvider(cfg.Data.HolidayURL, cfg.Data.RequestTimeout), logger)

	dataStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some commands may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "momentum",
		Short: "NSE intraday momentum paper-trading bot",
		Long: `Momentum is a paper-trading bot for the Indian stock market.

Each day it screens the NSE bhavcopy for high-momentum stocks, simulates
entries when a candidate confirms its move, and manages the open book
with a stop loss, a trailing stop and a hard end-of-day flatten. Every
simulated trade and the daily P&L ledger are persisted to SQLite.

Use 'momentum run' to start the bot, or the read-only commands
(watchlist, positions, pnl) to inspect state from another terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/momentum-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newPnLCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Momentum Trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Info("Trading")
	output.Printf("  capital_per_trade:      %s\n", FormatIndianCurrency(cfg.Trading.CapitalPerTradeMoney()))
	output.Printf("  price_change_threshold: %.1f%%\n", cfg.Trading.PriceChangeThreshold)
	output.Printf("  volume_ratio_threshold: %.1fx\n", cfg.Trading.VolumeRatioThreshold)
	output.Printf("  entry_policy:           %s\n", cfg.Trading.EntryPolicy)
	output.Printf("  tick_interval:          %s\n", cfg.Trading.TickInterval)
	output.Info("Data")
	output.Printf("  quote_base_url:    %s\n", cfg.Data.QuoteBaseURL)
	output.Printf("  bhavcopy_base_url: %s\n", cfg.Data.BhavcopyBaseURL)
	output.Printf("  holiday_url:       %s\n", cfg.Data.HolidayURL)
	output.Printf("  request_timeout:   %s\n", cfg.Data.RequestTimeout)
	output.Info("Store")
	output.Printf("  path: %s\n", cfg.Store.Path)
	output.Info("Logging")
	output.Printf("  level: %s\n", cfg.Logging.Level)
	return nil
}
