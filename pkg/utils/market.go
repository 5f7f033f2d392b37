package utils

import (
	"time"

	"momentum-trader/internal/models"
)

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IndiaLocation)
}

// DateOf truncates t to midnight IST.
func DateOf(t time.Time) time.Time {
	t = t.In(IndiaLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IndiaLocation)
}

// SameDate reports whether a and b fall on the same IST calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// ParseDate parses a YYYY-MM-DD string as an IST calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, IndiaLocation)
}

func at(t time.Time, hour, minute int) time.Time {
	t = t.In(IndiaLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, IndiaLocation)
}

// SessionOpen returns 09:15 IST on t's date.
func SessionOpen(t time.Time) time.Time { return at(t, 9, 15) }

// EntryGate returns 09:20 IST on t's date. No entries before this time.
func EntryGate(t time.Time) time.Time { return at(t, 9, 20) }

// SessionClose returns 15:15 IST on t's date, the intraday square-off.
func SessionClose(t time.Time) time.Time { return at(t, 15, 15) }

// EODTaskTime returns 15:20 IST on t's date, when the daily terminal
// action (final flatten + P&L aggregation) runs.
func EODTaskTime(t time.Time) time.Time { return at(t, 15, 20) }

// MonitorCutoff returns 15:25 IST on t's date. Ticks stop after this.
func MonitorCutoff(t time.Time) time.Time { return at(t, 15, 25) }

// OuterClose returns 15:30 IST on t's date, the outer market-hours bound.
func OuterClose(t time.Time) time.Time { return at(t, 15, 30) }

// IsWeekend reports whether t falls on a Saturday or Sunday in IST.
func IsWeekend(t time.Time) bool {
	wd := t.In(IndiaLocation).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsMarketHours reports whether t is within the outer session window
// (09:15-15:30 IST on a weekday). The window deliberately extends past
// the 15:15 square-off so the EOD flattener is guaranteed a tick.
func IsMarketHours(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	return !t.Before(SessionOpen(t)) && !t.After(OuterClose(t))
}

// StatusAt returns the market phase at time t.
func StatusAt(t time.Time) models.MarketStatus {
	if IsWeekend(t) {
		return models.MarketClosed
	}
	switch {
	case t.Before(SessionOpen(t)):
		if !t.Before(at(t, 9, 0)) {
			return models.MarketPreOpen
		}
		return models.MarketClosed
	case t.Before(SessionClose(t)):
		return models.MarketOpen
	case !t.After(OuterClose(t)):
		return models.MarketPostClose
	default:
		return models.MarketClosed
	}
}
