package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

func newPositionsCmd(app *App) *cobra.Command {
	var closedDate string

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show open paper positions",
		Long: `Show the open paper positions from the store.

With --closed DATE (YYYY-MM-DD) it lists the trades closed on that
date instead, including their exit reasons.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			ctx := cmd.Context()

			if closedDate != "" {
				date, err := utils.ParseDate(closedDate)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", closedDate, err)
				}
				closed, err := app.Store.ListTradesClosedOn(ctx, date)
				if err != nil {
					return fmt.Errorf("loading closed trades: %w", err)
				}
				return renderClosed(output, closedDate, closed)
			}

			open, err := app.Store.ListOpenTrades(ctx)
			if err != nil {
				return fmt.Errorf("loading open positions: %w", err)
			}
			return renderOpen(output, open)
		},
	}

	cmd.Flags().StringVar(&closedDate, "closed", "", "show trades closed on DATE (YYYY-MM-DD)")
	return cmd
}

func renderOpen(output *Output, positions []*models.Position) error {
	if output.IsJSON() {
		return output.JSON(positions)
	}
	if len(positions) == 0 {
		output.Dim("No open positions")
		return nil
	}

	output.Info("Open positions (%d)", len(positions))
	table := NewTable(output, "SYMBOL", "QTY", "ENTRY", "CURRENT", "P&L %", "P&L ₹", "PEAK %", "ENTERED")
	for _, p := range positions {
		table.AddRow(
			p.Symbol,
			fmt.Sprintf("%d", p.Quantity),
			FormatPrice(p.EntryPrice),
			FormatPrice(p.CurrentPrice),
			output.FormatPercent(p.PnLPct),
			output.FormatPnL(p.PnLAbs),
			FormatPercentPlain(p.MaxProfitPct),
			FormatTime(p.EntryTime),
		)
	}
	table.Render()
	return nil
}

func renderClosed(output *Output, date string, positions []*models.Position) error {
	if output.IsJSON() {
		return output.JSON(positions)
	}
	if len(positions) == 0 {
		output.Dim("No trades closed on %s", date)
		return nil
	}

	output.Info("Trades closed on %s (%d)", date, len(positions))
	table := NewTable(output, "SYMBOL", "QTY", "ENTRY", "EXIT", "P&L %", "P&L ₹", "REASON")
	var total models.Money
	for _, p := range positions {
		table.AddRow(
			p.Symbol,
			fmt.Sprintf("%d", p.Quantity),
			FormatPrice(p.EntryPrice),
			FormatPrice(p.ExitPrice),
			output.FormatPercent(p.PnLPct),
			output.FormatPnL(p.PnLAbs),
			string(p.ExitReason),
		)
		total += p.PnLAbs
	}
	table.Render()
	output.Printf("\nTotal: %s\n", output.FormatPnL(total))
	return nil
}
