// Package marketdata provides the external market data collaborators:
// a best-effort last-traded-price lookup and a prior-session bulk
// OHLCV (bhavcopy) source. Both are polling, point-in-time fetches;
// there is no streaming feed.
package marketdata

import (
	"context"
	"net/http"
	"time"

	"momentum-trader/internal/models"
)

// PriceSource supplies a best-effort current last-traded price for a
// single symbol. A failed lookup returns errors.ErrPriceUnavailable
// (wrapped); callers skip the symbol or reuse the last known value.
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) (models.Money, error)
}

// BarSource supplies the end-of-day OHLCV table for a session date.
// A failed fetch surfaces as an error; callers treat it as an empty day.
type BarSource interface {
	FetchSessionBars(ctx context.Context, date time.Time) ([]models.SessionBar, error)
}

// userAgent mimics a desktop browser; both Google Finance and the NSE
// archive reject requests with a default Go client UA.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
