package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"momentum-trader/pkg/utils"
)

func newPnLCmd(app *App) *cobra.Command {
	var detailDate string

	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Show the daily P&L ledger",
		Long: `Show the daily realized P&L ledger and the cumulative total.

With --date DATE (YYYY-MM-DD) it shows that day's figure together with
the trades that produced it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			ctx := cmd.Context()

			if detailDate != "" {
				date, err := utils.ParseDate(detailDate)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", detailDate, err)
				}
				total, err := app.Store.SumRealizedPnL(ctx, date)
				if err != nil {
					return fmt.Errorf("computing P&L: %w", err)
				}
				closed, err := app.Store.ListTradesClosedOn(ctx, date)
				if err != nil {
					return fmt.Errorf("loading closed trades: %w", err)
				}
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{
						"date":   detailDate,
						"total":  total,
						"trades": closed,
					})
				}
				output.Info("P&L for %s: %s (%d trades)", detailDate, output.FormatPnL(total), len(closed))
				output.Println()
				return renderClosed(output, detailDate, closed)
			}

			history, err := app.Store.PnLHistory(ctx)
			if err != nil {
				return fmt.Errorf("loading P&L history: %w", err)
			}
			cumulative, err := app.Store.CumulativePnL(ctx)
			if err != nil {
				return fmt.Errorf("computing cumulative P&L: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"history":    history,
					"cumulative": cumulative,
				})
			}
			if len(history) == 0 {
				output.Dim("No P&L history yet")
				return nil
			}

			output.Info("Daily P&L (%d sessions)", len(history))
			table := NewTable(output, "DATE", "P&L")
			for _, day := range history {
				table.AddRow(FormatDate(day.Date), output.FormatPnL(day.TotalPnL))
			}
			table.Render()
			output.Printf("\nCumulative: %s\n", output.FormatPnL(cumulative))
			return nil
		},
	}

	cmd.Flags().StringVar(&detailDate, "date", "", "show trades behind DATE's figure (YYYY-MM-DD)")
	return cmd
}
