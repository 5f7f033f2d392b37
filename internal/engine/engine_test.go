package engine

import (
	"context"
	"fmt"
	"time"

	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

// fakePriceSource serves canned quotes keyed by symbol. A symbol with
// no quote returns an error, like a scrape miss.
type fakePriceSource struct {
	quotes map[string]models.Money
	calls  int
}

func (f *fakePriceSource) FetchPrice(ctx context.Context, symbol string) (models.Money, error) {
	f.calls++
	price, ok := f.quotes[symbol]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return price, nil
}

// fakeStore is an in-memory DataStore. failCreate and failUpdate make
// the corresponding writes fail to exercise the persistence error paths.
type fakeStore struct {
	nextID     int64
	trades     map[int64]*models.Position
	dailyPnL   map[string]models.Money
	watchlist  []models.WatchlistEntry
	failCreate bool
	failUpdate bool
	updates    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		trades:   make(map[int64]*models.Position),
		dailyPnL: make(map[string]models.Money),
	}
}

func (f *fakeStore) CreateTrade(ctx context.Context, pos *models.Position) (int64, error) {
	if f.failCreate {
		return 0, fmt.Errorf("create failed")
	}
	id := f.nextID
	f.nextID++
	cp := *pos
	cp.ID = id
	f.trades[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateTrade(ctx context.Context, pos *models.Position) error {
	f.updates++
	if f.failUpdate {
		return fmt.Errorf("update failed")
	}
	cp := *pos
	f.trades[pos.ID] = &cp
	return nil
}

func (f *fakeStore) ListOpenTrades(ctx context.Context) ([]*models.Position, error) {
	var out []*models.Position
	for _, p := range f.trades {
		if p.IsOpen {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTradesClosedOn(ctx context.Context, date time.Time) ([]*models.Position, error) {
	var out []*models.Position
	for _, p := range f.trades {
		if !p.IsOpen && p.ExitTime != nil && utils.SameDate(*p.ExitTime, date) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) SumRealizedPnL(ctx context.Context, date time.Time) (models.Money, error) {
	var total models.Money
	for _, p := range f.trades {
		if !p.IsOpen && p.ExitTime != nil && utils.SameDate(*p.ExitTime, date) {
			total += (p.ExitPrice - p.EntryPrice).MulQty(p.Quantity)
		}
	}
	return total, nil
}

func (f *fakeStore) UpsertDailyPnL(ctx context.Context, date time.Time, total models.Money) error {
	f.dailyPnL[date.Format("2006-01-02")] = total
	return nil
}

func (f *fakeStore) PnLHistory(ctx context.Context) ([]models.DailyPnL, error) {
	var out []models.DailyPnL
	for day, total := range f.dailyPnL {
		date, _ := utils.ParseDate(day)
		out = append(out, models.DailyPnL{Date: date, TotalPnL: total})
	}
	return out, nil
}

func (f *fakeStore) CumulativePnL(ctx context.Context) (models.Money, error) {
	var total models.Money
	for _, t := range f.dailyPnL {
		total += t
	}
	return total, nil
}

func (f *fakeStore) ReplaceWatchlist(ctx context.Context, entries []models.WatchlistEntry) error {
	f.watchlist = append([]models.WatchlistEntry(nil), entries...)
	return nil
}

func (f *fakeStore) GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	return append([]models.WatchlistEntry(nil), f.watchlist...), nil
}

func (f *fakeStore) Close() error { return nil }

// istTime builds a timestamp on a fixed trading day (a Wednesday).
func istTime(hour, minute int) time.Time {
	return time.Date(2026, time.August, 26, hour, minute, 0, 0, utils.IndiaLocation)
}
