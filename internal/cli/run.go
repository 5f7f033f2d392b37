package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"momentum-trader/internal/engine"
	"momentum-trader/internal/notify"
	"momentum-trader/pkg/utils"
)

func newRunCmd(app *App) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the paper-trading bot",
		Long: `Start the bot's monitoring loop.

The bot generates the daily watchlist, admits entries after 09:20 IST,
re-prices the open book every tick, applies the stop-loss and trailing
stop rules, force-closes everything at 15:15 and saves the day's P&L
at 15:20. Stop it with Ctrl-C; open positions survive a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store unavailable, cannot run the bot")
			}

			var notifier notify.Notifier = notify.NewTerminalNotifier()
			if quiet {
				notifier = notify.Nop{}
			}

			orch := engine.NewOrchestrator(app.Config, app.Store, app.Bars,
				app.Prices, app.Sessions, notifier, app.Logger)

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			output.Info("Momentum bot starting (%s IST)", FormatTime(utils.NowIST()))
			output.Dim("Tick interval %s, press Ctrl-C to stop", app.Config.Trading.TickInterval)

			if err := orch.Run(ctx); err != nil {
				return fmt.Errorf("bot stopped with error: %w", err)
			}
			output.Success("Bot stopped cleanly, %d position(s) still open", orch.OpenPositionCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress terminal event notifications")
	return cmd
}
