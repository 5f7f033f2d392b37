package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"momentum-trader/internal/calendar"
	apperrors "momentum-trader/internal/errors"
)

// equitiesSegment is the NSE holiday-master key for the capital market
// (equities) product class.
const equitiesSegment = "CM"

// holidayEntry is one row of the NSE holiday calendar API response.
type holidayEntry struct {
	TradingDate string `json:"tradingDate"` // "26-Jan-2026"
	WeekDay     string `json:"weekDay"`
	Description string `json:"description"`
}

// NSEHolidayProvider fetches the exchange holiday calendar from the NSE
// API and filters it to the equities segment.
type NSEHolidayProvider struct {
	client *http.Client
	url    string
}

// NewNSEHolidayProvider creates a holiday provider with a bounded
// request timeout.
func NewNSEHolidayProvider(url string, timeout time.Duration) *NSEHolidayProvider {
	return &NSEHolidayProvider{
		client: newHTTPClient(timeout),
		url:    url,
	}
}

// Holidays downloads and parses the equities holiday set. Unparseable
// dates are dropped individually; a failed fetch or a payload with no
// equities segment returns an error, which the calendar resolver
// degrades to weekend-only skipping.
func (p *NSEHolidayProvider) Holidays(ctx context.Context) (calendar.HolidaySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, apperrors.NewDataError("holidays", "", "building request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewDataError("holidays", "", "downloading", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDataError("holidays", "",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload map[string][]holidayEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewDataError("holidays", "", "parsing json", err)
	}

	entries, ok := payload[equitiesSegment]
	if !ok {
		return nil, apperrors.NewDataError("holidays", "", "equities segment missing", nil)
	}

	set := make(calendar.HolidaySet, len(entries))
	for _, e := range entries {
		d, err := time.Parse("02-Jan-2006", e.TradingDate)
		if err != nil {
			continue
		}
		set[d.Format("2006-01-02")] = struct{}{}
	}
	return set, nil
}
