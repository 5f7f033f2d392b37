// Package config provides configuration management for the trading bot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"momentum-trader/internal/models"
)

// EntryPolicy selects which price-confirmation rule admits entries.
// Both rules exist in the field; which one is canonical is an open
// product question, so they are independently selectable rather than
// silently unified.
type EntryPolicy string

const (
	// PolicyCloseConfirmation admits when the live price exceeds
	// 1.01 x the previous session close.
	PolicyCloseConfirmation EntryPolicy = "close_101"
	// PolicyHighBreakout admits when the live price exceeds the
	// previous session high.
	PolicyHighBreakout EntryPolicy = "prev_high"
)

// Config holds all application configuration.
type Config struct {
	Trading TradingConfig `mapstructure:"trading"`
	Data    DataConfig    `mapstructure:"data"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TradingConfig holds the strategy parameters.
type TradingConfig struct {
	CapitalPerTrade      float64       `mapstructure:"capital_per_trade"`
	PriceChangeThreshold float64       `mapstructure:"price_change_threshold"`
	VolumeRatioThreshold float64       `mapstructure:"volume_ratio_threshold"`
	EntryPolicy          EntryPolicy   `mapstructure:"entry_policy"`
	TickInterval         time.Duration `mapstructure:"tick_interval"`
}

// DataConfig holds external data source settings.
type DataConfig struct {
	QuoteBaseURL    string        `mapstructure:"quote_base_url"`
	BhavcopyBaseURL string        `mapstructure:"bhavcopy_base_url"`
	HolidayURL      string        `mapstructure:"holiday_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// CapitalPerTrade returns the per-entry capital as fixed-point money.
func (t TradingConfig) CapitalPerTradeMoney() models.Money {
	return models.MoneyFromRupees(t.CapitalPerTrade)
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/momentum-trader"
	}
	return filepath.Join(home, ".config", "momentum-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		// First run: write a template so the defaults are discoverable.
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("writing template config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("trading.capital_per_trade", 10000.0)
	v.SetDefault("trading.price_change_threshold", 5.0)
	v.SetDefault("trading.volume_ratio_threshold", 5.0)
	v.SetDefault("trading.entry_policy", string(PolicyCloseConfirmation))
	v.SetDefault("trading.tick_interval", "30s")

	v.SetDefault("data.quote_base_url", "https://www.google.com/finance/quote")
	v.SetDefault("data.bhavcopy_base_url", "https://archives.nseindia.com/products/content")
	v.SetDefault("data.holiday_url", "https://www.nseindia.com/api/holiday-master?type=trading")
	v.SetDefault("data.request_timeout", "10s")

	v.SetDefault("store.path", filepath.Join(configDir, "trades.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "bot.log"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAPITAL_PER_TRADE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.CapitalPerTrade = f
		}
	}
	if v := os.Getenv("PRICE_CHANGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.PriceChangeThreshold = f
		}
	}
	if v := os.Getenv("VOLUME_RATIO_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.VolumeRatioThreshold = f
		}
	}
	if v := os.Getenv("ENTRY_POLICY"); v != "" {
		cfg.Trading.EntryPolicy = EntryPolicy(v)
	}
	if v := os.Getenv("TRADER_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate validates the configuration. Invalid configuration is fatal
// at startup, before any trading logic runs.
func (c *Config) Validate() error {
	if c.Trading.CapitalPerTrade <= 0 {
		return fmt.Errorf("capital_per_trade must be positive, got %.2f", c.Trading.CapitalPerTrade)
	}
	if c.Trading.PriceChangeThreshold <= 0 {
		return fmt.Errorf("price_change_threshold must be positive, got %.2f", c.Trading.PriceChangeThreshold)
	}
	if c.Trading.VolumeRatioThreshold <= 0 {
		return fmt.Errorf("volume_ratio_threshold must be positive, got %.2f", c.Trading.VolumeRatioThreshold)
	}
	switch c.Trading.EntryPolicy {
	case PolicyCloseConfirmation, PolicyHighBreakout:
	default:
		return fmt.Errorf("invalid entry_policy: %q (must be %q or %q)",
			c.Trading.EntryPolicy, PolicyCloseConfirmation, PolicyHighBreakout)
	}
	if c.Trading.TickInterval < time.Second {
		return fmt.Errorf("tick_interval must be at least 1s, got %s", c.Trading.TickInterval)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Data.QuoteBaseURL == "" || c.Data.BhavcopyBaseURL == "" {
		return fmt.Errorf("data source URLs must not be empty")
	}
	if c.Data.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.Data.RequestTimeout)
	}
	return nil
}
