// Package engine implements the position lifecycle: watchlist filtering,
// entry admission, continuous re-pricing with rule-based exits, the
// end-of-day flatten, and daily P&L aggregation.
package engine

import (
	"sort"
	"time"

	"momentum-trader/internal/models"
)

// Thresholds are the momentum filter parameters.
type Thresholds struct {
	PriceChangePct float64
	VolumeRatio    float64
}

// DefaultThresholds returns the standard breakout criteria.
func DefaultThresholds() Thresholds {
	return Thresholds{PriceChangePct: 5.0, VolumeRatio: 5.0}
}

// BuildWatchlist joins two sessions' bar tables on symbol and returns
// the breakout candidates, sorted by descending price change.
//
// A candidate must show a close-to-close gain of at least
// th.PriceChangePct percent, a volume multiple of at least
// th.VolumeRatio, and a bullish candle (close above open) in the last
// session. Rows missing any required field on either side are silently
// dropped. An empty result is a valid outcome.
func BuildWatchlist(prev, last []models.SessionBar, th Thresholds, generatedOn time.Time) []models.WatchlistEntry {
	prevBySymbol := make(map[string]models.SessionBar, len(prev))
	for _, bar := range prev {
		if bar.Valid() {
			prevBySymbol[bar.Symbol] = bar
		}
	}

	var entries []models.WatchlistEntry
	for _, lastBar := range last {
		if !lastBar.Valid() {
			continue
		}
		prevBar, ok := prevBySymbol[lastBar.Symbol]
		if !ok {
			continue
		}

		priceChangePct := models.PctChange(prevBar.Close, lastBar.Close)
		volumeRatio := float64(lastBar.Volume) / float64(prevBar.Volume)
		bullish := lastBar.Close > lastBar.Open

		if priceChangePct < th.PriceChangePct || volumeRatio < th.VolumeRatio || !bullish {
			continue
		}

		entries = append(entries, models.WatchlistEntry{
			Symbol:         lastBar.Symbol,
			PrevClose:      prevBar.Close,
			LastClose:      lastBar.Close,
			LastHigh:       lastBar.High,
			PriceChangePct: priceChangePct,
			VolumeRatio:    volumeRatio,
			GeneratedOn:    generatedOn,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PriceChangePct > entries[j].PriceChangePct
	})
	return entries
}
