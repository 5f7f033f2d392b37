package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"momentum-trader/internal/logging"
	"momentum-trader/internal/models"
	"momentum-trader/internal/store"
)

// Aggregator maintains the daily realized P&L ledger.
type Aggregator struct {
	store  store.DataStore
	logger zerolog.Logger
}

// NewAggregator creates the daily P&L aggregator.
func NewAggregator(st store.DataStore, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		store:  st,
		logger: logging.WithComponent(logger, "pnl"),
	}
}

// RecomputeDailyPnL sums realized P&L over all trades closed on the
// given date and upserts the ledger row. The total is recomputed from
// trade history each call rather than accumulated, so repeated runs for
// the same date are idempotent.
func (a *Aggregator) RecomputeDailyPnL(ctx context.Context, date time.Time) (models.Money, error) {
	total, err := a.store.SumRealizedPnL(ctx, date)
	if err != nil {
		return 0, err
	}
	if err := a.store.UpsertDailyPnL(ctx, date, total); err != nil {
		return 0, err
	}
	logging.LogDailyPnL(a.logger, date, total)
	return total, nil
}
