package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"momentum-trader/internal/logging"
	"momentum-trader/internal/marketdata"
	"momentum-trader/internal/models"
	"momentum-trader/internal/store"
	"momentum-trader/pkg/utils"
)

// Flattener force-closes all open positions at the end of the session.
type Flattener struct {
	prices marketdata.PriceSource
	store  store.DataStore
	logger zerolog.Logger
}

// NewFlattener creates the end-of-day flattener.
func NewFlattener(prices marketdata.PriceSource, st store.DataStore, logger zerolog.Logger) *Flattener {
	return &Flattener{
		prices: prices,
		store:  st,
		logger: logging.WithComponent(logger, "eod"),
	}
}

// ForceClose closes every still-open position once now has reached the
// 15:15 session close. Before that it is a no-op, and re-running after
// everything is closed is also a no-op. A failed price fetch falls back
// to the last mark, then the entry price.
func (f *Flattener) ForceClose(ctx context.Context, positions []*models.Position, now time.Time) []string {
	if now.Before(utils.SessionClose(now)) {
		return nil
	}

	var messages []string
	for _, pos := range positions {
		if !pos.IsOpen {
			continue
		}

		price, err := f.prices.FetchPrice(ctx, pos.Symbol)
		if err != nil || price <= 0 {
			// Position.Close falls back to the last mark / entry price.
			price = 0
		}

		pos.Close(models.ExitEndOfDay, price, now)
		if err := f.store.UpdateTrade(ctx, pos); err != nil {
			pos.DirtyClose = true
			f.logger.Error().Str("symbol", pos.Symbol).Int64("trade_id", pos.ID).Err(err).
				Msg("Failed to persist EOD close, will retry")
		}
		logging.LogExit(f.logger, pos.Symbol, models.ExitEndOfDay, pos.ExitPrice, pos.PnLPct)
		messages = append(messages, fmt.Sprintf("EOD Exit: %s @ %s, P&L: %.2f%%",
			pos.Symbol, pos.ExitPrice, pos.PnLPct))
	}
	return messages
}
