package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"momentum-trader/internal/config"
	"momentum-trader/internal/logging"
	"momentum-trader/internal/marketdata"
	"momentum-trader/internal/models"
	"momentum-trader/internal/store"
	"momentum-trader/pkg/utils"
)

// closeConfirmationFactor is the margin over the previous close required
// by the close-confirmation entry policy.
const closeConfirmationFactor = 1.01

// Admitter decides which watchlist candidates become positions.
type Admitter struct {
	prices  marketdata.PriceSource
	store   store.DataStore
	policy  config.EntryPolicy
	capital models.Money
	logger  zerolog.Logger
}

// NewAdmitter creates an entry admitter. capital is the fixed amount
// each entry is sized against, independently of any other entry.
func NewAdmitter(prices marketdata.PriceSource, st store.DataStore, policy config.EntryPolicy,
	capital models.Money, logger zerolog.Logger) *Admitter {
	return &Admitter{
		prices:  prices,
		store:   st,
		policy:  policy,
		capital: capital,
		logger:  logging.WithComponent(logger, "entry"),
	}
}

// Admit evaluates every watchlist candidate not already held and opens
// positions for those whose live price confirms the breakout.
//
// Before the 09:20 entry gate it returns only an advisory message: the
// gate is an expected outcome, not an error. A failed or non-positive
// price fetch skips that candidate and never aborts the batch. A
// position enters the in-memory set only after the store has assigned
// it an id, so store and memory cannot diverge on creation.
func (a *Admitter) Admit(ctx context.Context, watchlist []models.WatchlistEntry,
	positions []*models.Position, now time.Time) ([]*models.Position, []string) {

	var messages []string

	gate := utils.EntryGate(now)
	if now.Before(gate) {
		messages = append(messages, fmt.Sprintf("Waiting for %s to start entries (current %s)",
			gate.Format("15:04"), now.Format("15:04:05")))
		return nil, messages
	}

	// A symbol traded today, open or already closed, is never re-entered.
	held := make(map[string]bool, len(positions))
	for _, p := range positions {
		held[p.Symbol] = true
	}

	var admitted []*models.Position
	for _, candidate := range watchlist {
		if held[candidate.Symbol] {
			continue
		}

		price, err := a.prices.FetchPrice(ctx, candidate.Symbol)
		if err != nil || price <= 0 {
			a.logger.Debug().Str("symbol", candidate.Symbol).Err(err).Msg("Skipping candidate, no price")
			continue
		}

		if price <= a.entryTarget(candidate) {
			continue
		}

		qty := int(int64(a.capital) / int64(price))
		if qty < 1 {
			qty = 1
		}

		pos := models.NewPosition(candidate.Symbol, price, qty, now)
		id, err := a.store.CreateTrade(ctx, pos)
		if err != nil {
			a.logger.Error().Str("symbol", candidate.Symbol).Err(err).Msg("Failed to persist entry")
			messages = append(messages, fmt.Sprintf("Error saving trade for %s: %v", candidate.Symbol, err))
			continue
		}
		pos.ID = id

		admitted = append(admitted, pos)
		held[candidate.Symbol] = true
		logging.LogEntry(a.logger, pos.Symbol, pos.Quantity, pos.EntryPrice)
		messages = append(messages, fmt.Sprintf("Opened position: %s @ %s, Qty: %d",
			pos.Symbol, pos.EntryPrice, pos.Quantity))
	}

	return admitted, messages
}

// entryTarget returns the price the live quote must exceed for the
// configured policy. Both rules key off the most recent completed
// session, the breakout day itself.
func (a *Admitter) entryTarget(candidate models.WatchlistEntry) models.Money {
	if a.policy == config.PolicyHighBreakout {
		return candidate.LastHigh
	}
	return candidate.LastClose.Scale(closeConfirmationFactor)
}
