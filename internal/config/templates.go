package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# momentum-trader configuration

[trading]
# Capital deployed per admitted position, in rupees. Entries are sized
# independently against this figure; total exposure is not capped.
capital_per_trade = 10000.0
# Previous-session close-to-close change required to enter the watchlist.
price_change_threshold = 5.0
# Previous-session volume multiple required to enter the watchlist.
volume_ratio_threshold = 5.0
# Entry confirmation rule: "close_101" (price > 1.01 x prev close) or
# "prev_high" (price > previous session high).
entry_policy = "close_101"
# Monitoring cadence while the session is open.
tick_interval = "30s"

[data]
quote_base_url = "https://www.google.com/finance/quote"
bhavcopy_base_url = "https://archives.nseindia.com/products/content"
holiday_url = "https://www.nseindia.com/api/holiday-master?type=trading"
request_timeout = "10s"

[store]
# path = "/path/to/trades.db"

[logging]
level = "info"
console = true
file = true
`

// createTemplateConfig writes the default config.toml if none exists.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
