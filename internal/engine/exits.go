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
)

// Exit rule parameters. Stop-loss is checked before the trailing stop;
// when both fire in one tick the stop-loss reason wins.
const (
	stopLossPct  = -2.0
	trailDropPct = 10.0
)

// Repricer re-marks open positions against live prices and applies the
// exit rules.
type Repricer struct {
	prices marketdata.PriceSource
	store  store.DataStore
	logger zerolog.Logger
}

// NewRepricer creates the re-pricing and exit engine.
func NewRepricer(prices marketdata.PriceSource, st store.DataStore, logger zerolog.Logger) *Repricer {
	return &Repricer{
		prices: prices,
		store:  st,
		logger: logging.WithComponent(logger, "exits"),
	}
}

// Tick re-prices every open position and closes those matching an exit
// rule. A failed price fetch retains the previous mark and skips rule
// evaluation for that position; a missing quote never forces a
// transition. Closed positions pass through untouched, except that a
// close whose store write previously failed is retried.
func (r *Repricer) Tick(ctx context.Context, positions []*models.Position, now time.Time) []string {
	var messages []string

	for _, pos := range positions {
		if !pos.IsOpen {
			if pos.DirtyClose {
				r.retryCloseWrite(ctx, pos)
			}
			continue
		}

		price, err := r.prices.FetchPrice(ctx, pos.Symbol)
		if err != nil || price <= 0 {
			r.logger.Debug().Str("symbol", pos.Symbol).Err(err).Msg("No quote, keeping last mark")
			continue
		}

		pos.Reprice(price)

		var reason models.ExitReason
		switch {
		case pos.PnLPct <= stopLossPct:
			reason = models.ExitStopLoss
		case pos.MaxProfitPct > 0 && pos.MaxProfitPct-pos.PnLPct >= trailDropPct:
			reason = models.ExitTrailing
		default:
			// Mark-to-market only; nothing to persist.
			continue
		}

		peak := pos.MaxProfitPct
		pos.Close(reason, price, now)
		r.persistClose(ctx, pos)
		logging.LogExit(r.logger, pos.Symbol, reason, price, pos.PnLPct)

		switch reason {
		case models.ExitStopLoss:
			messages = append(messages, fmt.Sprintf("Stop Loss: %s @ %s, P&L: %.2f%%",
				pos.Symbol, price, pos.PnLPct))
		case models.ExitTrailing:
			messages = append(messages, fmt.Sprintf("Trailing Stop: %s @ %s, Peak: %.2f%%, Current: %.2f%%",
				pos.Symbol, price, peak, pos.PnLPct))
		}
	}

	return messages
}

// persistClose writes a close to the store. On failure the in-memory
// close stands and the write is retried on later ticks: a crash before
// a successful retry would re-open a trade that already exited, so the
// update must eventually land (at-least-once).
func (r *Repricer) persistClose(ctx context.Context, pos *models.Position) {
	if err := r.store.UpdateTrade(ctx, pos); err != nil {
		pos.DirtyClose = true
		r.logger.Error().Str("symbol", pos.Symbol).Int64("trade_id", pos.ID).Err(err).
			Msg("Failed to persist close, will retry")
		return
	}
	pos.DirtyClose = false
}

func (r *Repricer) retryCloseWrite(ctx context.Context, pos *models.Position) {
	if err := r.store.UpdateTrade(ctx, pos); err != nil {
		r.logger.Error().Str("symbol", pos.Symbol).Int64("trade_id", pos.ID).Err(err).
			Msg("Close write retry failed")
		return
	}
	pos.DirtyClose = false
	r.logger.Info().Str("symbol", pos.Symbol).Int64("trade_id", pos.ID).Msg("Close write retry succeeded")
}
