// Package models defines the core data types shared across the application.
package models

import "time"

// SessionBar is one symbol's OHLCV summary for a single trading session,
// as published in the exchange bhavcopy. Immutable once fetched.
type SessionBar struct {
	Symbol string
	Open   Money
	High   Money
	Low    Money
	Close  Money
	Volume int64
}

// Valid reports whether the bar carries the fields the momentum filter
// needs. Bars failing this check are silently dropped, not errored.
func (b SessionBar) Valid() bool {
	return b.Symbol != "" && b.Open > 0 && b.Close > 0 && b.Volume > 0
}

// WatchlistEntry is one breakout candidate produced by the momentum
// filter. Created once per session, read-only afterward.
type WatchlistEntry struct {
	Symbol         string
	PrevClose      Money
	LastClose      Money
	LastHigh       Money
	PriceChangePct float64
	VolumeRatio    float64
	GeneratedOn    time.Time // calendar date, midnight IST
}

// DailyPnL is one row of the realized P&L ledger, keyed by calendar date.
type DailyPnL struct {
	Date     time.Time
	TotalPnL Money
}

// MarketStatus represents the current phase of the trading session.
type MarketStatus string

const (
	MarketClosed    MarketStatus = "CLOSED"
	MarketPreOpen   MarketStatus = "PRE_OPEN"
	MarketOpen      MarketStatus = "OPEN"
	MarketPostClose MarketStatus = "POST_CLOSE" // between square-off and outer close
)
