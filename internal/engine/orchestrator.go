package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"momentum-trader/internal/calendar"
	"momentum-trader/internal/config"
	"momentum-trader/internal/logging"
	"momentum-trader/internal/marketdata"
	"momentum-trader/internal/models"
	"momentum-trader/internal/notify"
	"momentum-trader/internal/store"
	"momentum-trader/pkg/utils"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateNotStarted       State = "NOT_STARTED"
	StateInitialized      State = "INITIALIZED"
	StateWatchlistPending State = "WATCHLIST_PENDING"
	StateMonitoring       State = "MONITORING"
	StateStopped          State = "STOPPED"
)

// callTimeout bounds every external call made from the tick loop so a
// stalled HTTP or DB call cannot starve the tick cadence.
const callTimeout = 25 * time.Second

// Orchestrator sequences the trading components against wall-clock time
// and owns the in-memory position and watchlist state between ticks.
// It is the single writer against the store; a read-only viewer may
// poll the store freely.
type Orchestrator struct {
	cfg      *config.Config
	store    store.DataStore
	bars     marketdata.BarSource
	sessions *calendar.Resolver
	notifier notify.Notifier
	logger   zerolog.Logger

	admitter   *Admitter
	repricer   *Repricer
	flattener  *Flattener
	aggregator *Aggregator

	state         State
	positions     []*models.Position
	watchlist     []models.WatchlistEntry
	watchlistDate time.Time // zero until first generation
	eodDoneFor    time.Time // zero until first EOD run

	// nowFn is swapped out by tests to control the clock.
	nowFn func() time.Time
}

// NewOrchestrator wires the trading components together.
func NewOrchestrator(cfg *config.Config, st store.DataStore, bars marketdata.BarSource,
	prices marketdata.PriceSource, sessions *calendar.Resolver,
	notifier notify.Notifier, logger zerolog.Logger) *Orchestrator {

	logger = logging.WithComponent(logger, "orchestrator")
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      st,
		bars:       bars,
		sessions:   sessions,
		notifier:   notifier,
		logger:     logger,
		admitter:   NewAdmitter(prices, st, cfg.Trading.EntryPolicy, cfg.Trading.CapitalPerTradeMoney(), logger),
		repricer:   NewRepricer(prices, st, logger),
		flattener:  NewFlattener(prices, st, logger),
		aggregator: NewAggregator(st, logger),
		state:      StateNotStarted,
		nowFn:      utils.NowIST,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// OpenPositionCount returns the number of currently open positions.
func (o *Orchestrator) OpenPositionCount() int {
	n := 0
	for _, p := range o.positions {
		if p.IsOpen {
			n++
		}
	}
	return n
}

// Start loads the durable state into memory. Open positions are
// rebuilt from the store (the store is the source of truth across
// restarts), and a watchlist already persisted for today is reloaded
// so a same-day restart does not regenerate it.
func (o *Orchestrator) Start(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	open, err := o.store.ListOpenTrades(cctx)
	if err != nil {
		return fmt.Errorf("loading open positions: %w", err)
	}
	o.positions = open

	if persisted, err := o.store.GetWatchlist(cctx); err == nil && len(persisted) > 0 {
		if utils.SameDate(persisted[0].GeneratedOn, o.nowFn()) {
			o.watchlist = persisted
			o.watchlistDate = utils.DateOf(persisted[0].GeneratedOn)
			o.logger.Info().Int("candidates", len(persisted)).Msg("Reloaded today's watchlist")
		}
	}

	o.state = StateInitialized
	o.logger.Info().Int("open_positions", len(open)).Msg("Orchestrator initialized")
	return nil
}

// Run drives the tick loop until ctx is cancelled. The stop signal is
// checked between ticks only; an in-flight tick always completes.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.state == StateNotStarted {
		if err := o.Start(ctx); err != nil {
			return err
		}
	}

	// Populate the watchlist immediately on startup; a late start must
	// not wait for the next session open.
	o.ensureWatchlist(ctx, o.nowFn())

	ticker := time.NewTicker(o.cfg.Trading.TickInterval)
	defer ticker.Stop()

	o.logger.Info().Dur("interval", o.cfg.Trading.TickInterval).Msg("Monitoring started")

	for {
		select {
		case <-ctx.Done():
			o.state = StateStopped
			o.logger.Info().Msg("Orchestrator stopped")
			return nil
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick runs one monitoring pass: exits first, then the EOD flatten,
// then new entries, so risk reduction always takes priority over risk
// addition within a tick.
func (o *Orchestrator) tick(ctx context.Context) {
	now := o.nowFn()

	o.ensureWatchlist(ctx, now)

	if utils.IsMarketHours(now) && !now.After(utils.MonitorCutoff(now)) {
		o.state = StateMonitoring
		o.monitorOnce(ctx, now)
	}

	if !now.Before(utils.EODTaskTime(now)) && !utils.SameDate(o.eodDoneFor, now) && !utils.IsWeekend(now) {
		o.endOfDay(ctx, now)
	}
}

func (o *Orchestrator) monitorOnce(ctx context.Context, now time.Time) {
	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	o.publish(o.repricer.Tick(cctx, o.positions, now))
	o.publish(o.flattener.ForceClose(cctx, o.positions, now))

	if len(o.watchlist) > 0 {
		admitted, messages := o.admitter.Admit(cctx, o.watchlist, o.positions, now)
		o.positions = append(o.positions, admitted...)
		o.publish(messages)
	}

	o.logger.Debug().Int("open_positions", o.OpenPositionCount()).Msg("Tick complete")
}

// endOfDay is the daily terminal action: a final safety-net flatten,
// then the P&L ledger upsert.
func (o *Orchestrator) endOfDay(ctx context.Context, now time.Time) {
	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	o.publish(o.flattener.ForceClose(cctx, o.positions, now))

	total, err := o.aggregator.RecomputeDailyPnL(cctx, now)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to save daily P&L")
		return
	}
	o.publish([]string{fmt.Sprintf("Daily P&L saved: %s", total)})
	o.eodDoneFor = utils.DateOf(now)
}

// ensureWatchlist builds and persists the watchlist once per calendar
// day. The date guard makes it idempotent across restarts: rebuilding
// is skipped when today's list already exists in memory or the store.
func (o *Orchestrator) ensureWatchlist(ctx context.Context, now time.Time) {
	if utils.SameDate(o.watchlistDate, now) {
		return
	}
	if o.state == StateInitialized {
		o.state = StateWatchlistPending
	}

	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	last, prev := o.sessions.LastTwoTradingDays(cctx, now)
	o.logger.Info().
		Str("last_session", last.Format("2006-01-02")).
		Str("prev_session", prev.Format("2006-01-02")).
		Msg("Generating daily watchlist")

	lastBars, err := o.bars.FetchSessionBars(cctx, last)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Last session bhavcopy unavailable")
		return
	}
	prevBars, err := o.bars.FetchSessionBars(cctx, prev)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Previous session bhavcopy unavailable")
		return
	}

	th := Thresholds{
		PriceChangePct: o.cfg.Trading.PriceChangeThreshold,
		VolumeRatio:    o.cfg.Trading.VolumeRatioThreshold,
	}
	watchlist := BuildWatchlist(prevBars, lastBars, th, utils.DateOf(now))

	if err := o.store.ReplaceWatchlist(cctx, watchlist); err != nil {
		o.logger.Error().Err(err).Msg("Failed to persist watchlist")
		// Keep the in-memory list; the viewer just lags a day.
	}

	o.watchlist = watchlist
	o.watchlistDate = utils.DateOf(now)
	// Yesterday's closed positions no longer guard re-entry.
	o.pruneStalePositions(now)

	logging.LogWatchlist(o.logger, now, len(watchlist))
	o.publish([]string{fmt.Sprintf("Watchlist generated: %d candidates", len(watchlist))})
}

// pruneStalePositions drops closed positions from earlier days from the
// in-memory set once their close has been durably written.
func (o *Orchestrator) pruneStalePositions(now time.Time) {
	kept := o.positions[:0]
	for _, p := range o.positions {
		if p.IsOpen || p.DirtyClose || (p.ExitTime != nil && utils.SameDate(*p.ExitTime, now)) {
			kept = append(kept, p)
		}
	}
	o.positions = kept
}

func (o *Orchestrator) publish(messages []string) {
	for _, msg := range messages {
		o.logger.Info().Msg(msg)
		o.notifier.Notify(msg)
	}
}
