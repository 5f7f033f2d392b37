package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "momentum-trader/internal/errors"
	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

// timeLayout is how timestamps are stored; sqlite's date() function
// understands it, which SumRealizedPnL relies on.
const timeLayout = "2006-01-02 15:04:05"

const dateLayout = "2006-01-02"

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer process by design; a read-only viewer may poll freely.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes. Prices are stored
// as INTEGER paise so P&L summation stays exact in SQL.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		entry_price INTEGER NOT NULL,
		qty INTEGER NOT NULL,
		max_profit_pct REAL NOT NULL DEFAULT 0,
		is_open INTEGER NOT NULL DEFAULT 1,
		exit_reason TEXT,
		entry_time DATETIME NOT NULL,
		exit_time DATETIME,
		exit_price INTEGER,
		pnl_pct REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_pnl (
		date TEXT PRIMARY KEY,
		total_pnl INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		prev_close INTEGER NOT NULL,
		last_close INTEGER NOT NULL,
		last_high INTEGER NOT NULL,
		price_change_pct REAL NOT NULL,
		volume_ratio REAL NOT NULL,
		generated_on TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_open ON trades(is_open);
	CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
	CREATE INDEX IF NOT EXISTS idx_watchlist_generated ON watchlist(generated_on);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trades Methods
// ============================================================================

// CreateTrade inserts a new trade row and returns the assigned id.
func (s *SQLiteStore) CreateTrade(ctx context.Context, pos *models.Position) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (symbol, entry_price, qty, max_profit_pct, is_open, exit_reason, entry_time, exit_time, exit_price, pnl_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, pos.Symbol, int64(pos.EntryPrice), pos.Quantity, pos.MaxProfitPct, boolToInt(pos.IsOpen),
		string(pos.ExitReason), formatTime(pos.EntryTime), formatTimePtr(pos.ExitTime), exitPriceValue(pos), pos.PnLPct)
	if err != nil {
		return 0, apperrors.NewStoreError("create", 0, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError("create", 0, err)
	}
	return id, nil
}

// UpdateTrade persists the mutable and exit fields of an existing trade.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, pos *models.Position) error {
	if pos.ID == 0 {
		return apperrors.NewStoreError("update", 0, fmt.Errorf("position has no id"))
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET is_open = ?, exit_reason = ?, exit_time = ?, exit_price = ?, pnl_pct = ?, max_profit_pct = ?
		WHERE id = ?
	`, boolToInt(pos.IsOpen), string(pos.ExitReason), formatTimePtr(pos.ExitTime),
		exitPriceValue(pos), pos.PnLPct, pos.MaxProfitPct, pos.ID)
	if err != nil {
		return apperrors.NewStoreError("update", pos.ID, err)
	}
	return nil
}

const tradeColumns = "id, symbol, entry_price, qty, max_profit_pct, is_open, exit_reason, entry_time, exit_time, exit_price, pnl_pct"

// ListOpenTrades returns every open trade.
func (s *SQLiteStore) ListOpenTrades(ctx context.Context) ([]*models.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE is_open = 1 ORDER BY entry_time")
	if err != nil {
		return nil, apperrors.NewStoreError("list_open", 0, err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

// ListTradesClosedOn returns closed trades whose exit falls on the date.
func (s *SQLiteStore) ListTradesClosedOn(ctx context.Context, date time.Time) ([]*models.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE is_open = 0 AND date(exit_time) = ? ORDER BY exit_time",
		utils.DateOf(date).Format(dateLayout))
	if err != nil {
		return nil, apperrors.NewStoreError("list_closed", 0, err)
	}
	defer rows.Close()
	return scanPositions(rows)
}

func scanPositions(rows *sql.Rows) ([]*models.Position, error) {
	var positions []*models.Position
	for rows.Next() {
		var (
			p          models.Position
			entryPaise int64
			isOpen     int
			reason     sql.NullString
			entryTime  string
			exitTime   sql.NullString
			exitPaise  sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Symbol, &entryPaise, &p.Quantity, &p.MaxProfitPct,
			&isOpen, &reason, &entryTime, &exitTime, &exitPaise, &p.PnLPct); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		p.EntryPrice = models.Money(entryPaise)
		p.IsOpen = isOpen == 1
		p.ExitReason = models.ExitReason(reason.String)
		if t, err := parseTime(entryTime); err == nil {
			p.EntryTime = t
		}
		if exitTime.Valid {
			if t, err := parseTime(exitTime.String); err == nil {
				p.ExitTime = &t
			}
		}
		if exitPaise.Valid {
			p.ExitPrice = models.Money(exitPaise.Int64)
		}
		// Rebuild the mark-to-market fields from the persisted state.
		if p.IsOpen {
			p.CurrentPrice = p.EntryPrice
		} else {
			p.CurrentPrice = p.ExitPrice
		}
		p.PnLAbs = (p.CurrentPrice - p.EntryPrice).MulQty(p.Quantity)
		positions = append(positions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return positions, nil
}

// ============================================================================
// Daily P&L Methods
// ============================================================================

// SumRealizedPnL sums realized P&L over trades closed on the given date.
// Integer paise arithmetic in SQL, so the sum is exact.
func (s *SQLiteStore) SumRealizedPnL(ctx context.Context, date time.Time) (models.Money, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM((exit_price - entry_price) * qty), 0)
		FROM trades
		WHERE is_open = 0 AND date(exit_time) = ?
	`, utils.DateOf(date).Format(dateLayout)).Scan(&total)
	if err != nil {
		return 0, apperrors.NewStoreError("sum_pnl", 0, err)
	}
	return models.Money(total.Int64), nil
}

// UpsertDailyPnL inserts or replaces the ledger row for the date.
func (s *SQLiteStore) UpsertDailyPnL(ctx context.Context, date time.Time, total models.Money) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_pnl (date, total_pnl, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET total_pnl = excluded.total_pnl, updated_at = CURRENT_TIMESTAMP
	`, utils.DateOf(date).Format(dateLayout), int64(total))
	if err != nil {
		return apperrors.NewStoreError("upsert_pnl", 0, err)
	}
	return nil
}

// PnLHistory returns the ledger ordered by date.
func (s *SQLiteStore) PnLHistory(ctx context.Context) ([]models.DailyPnL, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, total_pnl FROM daily_pnl ORDER BY date")
	if err != nil {
		return nil, apperrors.NewStoreError("pnl_history", 0, err)
	}
	defer rows.Close()

	var history []models.DailyPnL
	for rows.Next() {
		var (
			dateStr string
			paise   int64
		)
		if err := rows.Scan(&dateStr, &paise); err != nil {
			return nil, fmt.Errorf("failed to scan daily pnl: %w", err)
		}
		d, err := time.ParseInLocation(dateLayout, dateStr, utils.IndiaLocation)
		if err != nil {
			continue
		}
		history = append(history, models.DailyPnL{Date: d, TotalPnL: models.Money(paise)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily pnl: %w", err)
	}
	return history, nil
}

// CumulativePnL sums the entire ledger.
func (s *SQLiteStore) CumulativePnL(ctx context.Context) (models.Money, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(total_pnl), 0) FROM daily_pnl").Scan(&total)
	if err != nil {
		return 0, apperrors.NewStoreError("cumulative_pnl", 0, err)
	}
	return models.Money(total.Int64), nil
}

// ============================================================================
// Watchlist Methods
// ============================================================================

// ReplaceWatchlist rewrites the persisted watchlist wholesale inside a
// transaction, so readers never observe a half-written list.
func (s *SQLiteStore) ReplaceWatchlist(ctx context.Context, entries []models.WatchlistEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("replace_watchlist", 0, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM watchlist"); err != nil {
		return apperrors.NewStoreError("replace_watchlist", 0, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO watchlist (symbol, prev_close, last_close, last_high, price_change_pct, volume_ratio, generated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.NewStoreError("replace_watchlist", 0, err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, e.Symbol, int64(e.PrevClose), int64(e.LastClose),
			int64(e.LastHigh), e.PriceChangePct, e.VolumeRatio,
			utils.DateOf(e.GeneratedOn).Format(dateLayout))
		if err != nil {
			return apperrors.NewStoreError("replace_watchlist", 0, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("replace_watchlist", 0, err)
	}
	return nil
}

// GetWatchlist returns the persisted watchlist sorted by descending
// price change.
func (s *SQLiteStore) GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, prev_close, last_close, last_high, price_change_pct, volume_ratio, generated_on
		FROM watchlist ORDER BY price_change_pct DESC
	`)
	if err != nil {
		return nil, apperrors.NewStoreError("get_watchlist", 0, err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var (
			e                          models.WatchlistEntry
			prevClose, lastClose, high int64
			generatedOn                string
		)
		if err := rows.Scan(&e.Symbol, &prevClose, &lastClose, &high,
			&e.PriceChangePct, &e.VolumeRatio, &generatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		e.PrevClose = models.Money(prevClose)
		e.LastClose = models.Money(lastClose)
		e.LastHigh = models.Money(high)
		if d, err := time.ParseInLocation(dateLayout, generatedOn, utils.IndiaLocation); err == nil {
			e.GeneratedOn = d
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}
	return entries, nil
}

// ============================================================================
// Helpers
// ============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.In(utils.IndiaLocation).Format(timeLayout)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func exitPriceValue(pos *models.Position) interface{} {
	if pos.IsOpen {
		return nil
	}
	return int64(pos.ExitPrice)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, utils.IndiaLocation)
}
