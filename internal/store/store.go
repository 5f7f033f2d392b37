// Package store provides data persistence for trades, the daily P&L
// ledger, and the persisted watchlist.
package store

import (
	"context"
	"time"

	"momentum-trader/internal/models"
)

// DataStore is the narrow CRUD surface the trading core depends on.
// The store is the single source of truth for crash recovery: the
// in-memory position set is always rebuildable from ListOpenTrades.
type DataStore interface {
	// CreateTrade persists a new position and returns the assigned id.
	CreateTrade(ctx context.Context, pos *models.Position) (int64, error)
	// UpdateTrade persists the mutable and exit fields of a position.
	UpdateTrade(ctx context.Context, pos *models.Position) error
	// ListOpenTrades returns every position with is_open = true.
	ListOpenTrades(ctx context.Context) ([]*models.Position, error)
	// ListTradesClosedOn returns closed positions whose exit_time falls
	// on the given calendar date, ordered by exit time.
	ListTradesClosedOn(ctx context.Context, date time.Time) ([]*models.Position, error)

	// SumRealizedPnL sums (exit_price - entry_price) * qty over trades
	// closed on the given date.
	SumRealizedPnL(ctx context.Context, date time.Time) (models.Money, error)
	// UpsertDailyPnL inserts or replaces the ledger row for the date.
	UpsertDailyPnL(ctx context.Context, date time.Time, total models.Money) error
	// PnLHistory returns the full ledger ordered by date.
	PnLHistory(ctx context.Context) ([]models.DailyPnL, error)
	// CumulativePnL sums the entire ledger.
	CumulativePnL(ctx context.Context) (models.Money, error)

	// ReplaceWatchlist rewrites the persisted watchlist wholesale.
	ReplaceWatchlist(ctx context.Context, entries []models.WatchlistEntry) error
	// GetWatchlist returns the persisted watchlist, newest generation
	// only, sorted by descending price change.
	GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error)

	Close() error
}
