// Package calendar resolves trading sessions on the NSE calendar.
package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"momentum-trader/pkg/utils"
)

// HolidaySet holds exchange holidays keyed by "2006-01-02" date strings.
type HolidaySet map[string]struct{}

// Contains reports whether the given date is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[utils.DateOf(t).Format("2006-01-02")]
	return ok
}

// HolidayProvider supplies the exchange holiday calendar, filtered to the
// equities segment. Implementations are best-effort: a failed or
// malformed fetch returns an error and the resolver degrades to
// weekend-only skipping.
type HolidayProvider interface {
	Holidays(ctx context.Context) (HolidaySet, error)
}

// PreviousTradingDay walks backward from date one day at a time, skipping
// Saturdays, Sundays, and members of the holiday set, and returns the
// first qualifying session date (midnight IST). A nil or empty holiday
// set degrades to weekend-only skipping.
func PreviousTradingDay(date time.Time, holidays HolidaySet) time.Time {
	d := utils.DateOf(date).AddDate(0, 0, -1)
	for utils.IsWeekend(d) || holidays.Contains(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Resolver caches the holiday calendar and answers session queries.
type Resolver struct {
	provider HolidayProvider
	logger   zerolog.Logger

	mu        sync.Mutex
	cached    HolidaySet
	fetchedAt time.Time
}

// cacheTTL bounds how stale a cached holiday calendar may get. The
// calendar changes at most a few times a year.
const cacheTTL = 24 * time.Hour

// NewResolver creates a resolver backed by the given provider.
func NewResolver(provider HolidayProvider, logger zerolog.Logger) *Resolver {
	return &Resolver{provider: provider, logger: logger}
}

// PreviousTradingDay returns the most recent trading session strictly
// before date. Holiday calendar failures are logged and tolerated.
func (r *Resolver) PreviousTradingDay(ctx context.Context, date time.Time) time.Time {
	return PreviousTradingDay(date, r.holidays(ctx))
}

// LastTwoTradingDays returns the last and previous trading sessions
// before date, in that order.
func (r *Resolver) LastTwoTradingDays(ctx context.Context, date time.Time) (last, prev time.Time) {
	holidays := r.holidays(ctx)
	last = PreviousTradingDay(date, holidays)
	prev = PreviousTradingDay(last, holidays)
	return last, prev
}

func (r *Resolver) holidays(ctx context.Context) HolidaySet {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && time.Since(r.fetchedAt) < cacheTTL {
		return r.cached
	}
	if r.provider == nil {
		return nil
	}

	set, err := r.provider.Holidays(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Holiday calendar unavailable, skipping weekends only")
		// Keep any stale cache rather than dropping to nothing.
		return r.cached
	}
	r.cached = set
	r.fetchedAt = time.Now()
	return r.cached
}
