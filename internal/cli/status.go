package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the market phase and a book summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			ctx := cmd.Context()

			now := utils.NowIST()
			phase := utils.StatusAt(now)

			open, err := app.Store.ListOpenTrades(ctx)
			if err != nil {
				return fmt.Errorf("loading open positions: %w", err)
			}
			watchlist, err := app.Store.GetWatchlist(ctx)
			if err != nil {
				return fmt.Errorf("loading watchlist: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"time":           FormatDateTime(now),
					"market":         phase,
					"open_positions": len(open),
					"watchlist":      len(watchlist),
				})
			}

			output.Printf("Time (IST):     %s\n", FormatDateTime(now))
			switch phase {
			case models.MarketOpen:
				output.Success("Market:         %s", phase)
			case models.MarketPreOpen, models.MarketPostClose:
				output.Warning("Market:         %s", phase)
			default:
				output.Dim("Market:         %s", phase)
			}
			output.Printf("Open positions: %d\n", len(open))
			if len(watchlist) > 0 {
				output.Printf("Watchlist:      %d candidates (%s)\n",
					len(watchlist), FormatDate(watchlist[0].GeneratedOn))
			} else {
				output.Printf("Watchlist:      empty\n")
			}

			var exposure models.Money
			for _, p := range open {
				exposure += p.EntryPrice.MulQty(p.Quantity)
			}
			if len(open) > 0 {
				output.Printf("Exposure:       %s\n", FormatIndianCurrency(exposure))
			}
			return nil
		},
	}
}
