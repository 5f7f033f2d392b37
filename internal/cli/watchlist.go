package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"momentum-trader/internal/engine"
	apperrors "momentum-trader/internal/errors"
	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

func newWatchlistCmd(app *App) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show the momentum watchlist",
		Long: `Show the persisted daily watchlist.

With --fresh the list is rebuilt from the last two NSE bhavcopies
instead of being read from the store. This does not touch the store;
only the running bot persists watchlists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			entries, err := loadWatchlist(ctx, app, fresh)
			if errors.Is(err, apperrors.ErrNoWatchlist) {
				output.Warning("No watchlist candidates")
				return nil
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Warning("No watchlist candidates")
				return nil
			}

			output.Info("Watchlist for %s (%d candidates)",
				FormatDate(entries[0].GeneratedOn), len(entries))
			table := NewTable(output, "SYMBOL", "PREV CLOSE", "LAST CLOSE", "LAST HIGH", "CHANGE", "VOL RATIO")
			for _, e := range entries {
				table.AddRow(
					e.Symbol,
					FormatPrice(e.PrevClose),
					FormatPrice(e.LastClose),
					FormatPrice(e.LastHigh),
					output.FormatPercent(e.PriceChangePct),
					fmt.Sprintf("%.1fx", e.VolumeRatio),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, "rebuild from the latest bhavcopies instead of the store")
	return cmd
}

func loadWatchlist(ctx context.Context, app *App, fresh bool) ([]models.WatchlistEntry, error) {
	if !fresh {
		if app.Store == nil {
			return nil, fmt.Errorf("store unavailable")
		}
		entries, err := app.Store.GetWatchlist(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading watchlist: %w", err)
		}
		if len(entries) == 0 {
			return nil, apperrors.ErrNoWatchlist
		}
		return entries, nil
	}

	now := utils.NowIST()
	last, prev := app.Sessions.LastTwoTradingDays(ctx, now)
	lastBars, err := app.Bars.FetchSessionBars(ctx, last)
	if err != nil {
		return nil, fmt.Errorf("fetching bhavcopy for %s: %w", FormatDate(last), err)
	}
	prevBars, err := app.Bars.FetchSessionBars(ctx, prev)
	if err != nil {
		return nil, fmt.Errorf("fetching bhavcopy for %s: %w", FormatDate(prev), err)
	}

	th := engine.Thresholds{
		PriceChangePct: app.Config.Trading.PriceChangeThreshold,
		VolumeRatio:    app.Config.Trading.VolumeRatioThreshold,
	}
	return engine.BuildWatchlist(prevBars, lastBars, th, utils.DateOf(now)), nil
}
