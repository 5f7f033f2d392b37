package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "momentum-trader/internal/errors"
	"momentum-trader/internal/models"
	"momentum-trader/internal/resilience"
	"momentum-trader/pkg/utils"
)

// priceSelector matches the last-traded-price element on a Google
// Finance quote page.
const priceSelector = ".YMlKec.fxKbKc"

// GoogleFinanceSource scrapes last-traded prices from Google Finance
// quote pages. NSE symbols map to URLs of the form
// {base}/{SYMBOL}:NSE.
type GoogleFinanceSource struct {
	client  *http.Client
	baseURL string
	retry   utils.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewGoogleFinanceSource creates a price source with a bounded request
// timeout. A circuit breaker backs the scraper off when the quote page
// fails repeatedly, instead of hammering it every tick.
func NewGoogleFinanceSource(baseURL string, timeout time.Duration) *GoogleFinanceSource {
	return &GoogleFinanceSource{
		client:  newHTTPClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   utils.DefaultRetryConfig(),
		breaker: resilience.NewCircuitBreaker("google-finance", resilience.DefaultCircuitBreakerConfig()),
	}
}

// FetchPrice returns the current last-traded price for an NSE symbol.
// Any failure (network, parse, non-positive value) maps to
// ErrPriceUnavailable; the caller decides whether to skip or reuse the
// last known price.
func (g *GoogleFinanceSource) FetchPrice(ctx context.Context, symbol string) (models.Money, error) {
	price, err := resilience.DoWithResult(g.breaker, func() (models.Money, error) {
		return utils.RetryWithResult(ctx, g.retry, func() (models.Money, error) {
			return g.fetchOnce(ctx, symbol)
		})
	})
	if err != nil {
		return 0, apperrors.NewDataError("quote", symbol, "fetching last traded price",
			fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err))
	}
	return price, nil
}

func (g *GoogleFinanceSource) fetchOnce(ctx context.Context, symbol string) (models.Money, error) {
	url := fmt.Sprintf("%s/%s:NSE", g.baseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(doc.Find(priceSelector).First().Text())
	if text == "" {
		return 0, fmt.Errorf("price element not found")
	}

	price, err := models.ParseMoney(stripCurrencyPrefix(text))
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %s", price)
	}
	return price, nil
}

// stripCurrencyPrefix drops a leading currency marker such as "₹".
func stripCurrencyPrefix(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-'
	})
}
