package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "momentum-trader/internal/errors"
	"momentum-trader/internal/models"
)

// bhavcopyRow mirrors one line of the NSE full bhavcopy CSV. Numeric
// fields stay strings because the feed uses "-" for missing values.
type bhavcopyRow struct {
	Symbol string `csv:"SYMBOL"`
	Series string `csv:"SERIES"`
	Open   string `csv:"OPEN_PRICE"`
	High   string `csv:"HIGH_PRICE"`
	Low    string `csv:"LOW_PRICE"`
	Close  string `csv:"CLOSE_PRICE"`
	Volume string `csv:"TTL_TRD_QNTY"`
}

// NSEBhavcopySource downloads end-of-day session bars from the NSE
// archive, e.g. {base}/sec_bhavdata_full_02012026.csv.
type NSEBhavcopySource struct {
	client  *http.Client
	baseURL string
}

// NewNSEBhavcopySource creates a bar source with a bounded request
// timeout.
func NewNSEBhavcopySource(baseURL string, timeout time.Duration) *NSEBhavcopySource {
	return &NSEBhavcopySource{
		client:  newHTTPClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchSessionBars downloads and parses the bhavcopy for the given
// session date, restricted to the EQ series. Rows with missing or
// unparseable fields are dropped, not errored.
func (n *NSEBhavcopySource) FetchSessionBars(ctx context.Context, date time.Time) ([]models.SessionBar, error) {
	url := fmt.Sprintf("%s/sec_bhavdata_full_%s.csv", n.baseURL, date.Format("02012006"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewDataError("bhavcopy", "", "building request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, apperrors.NewDataError("bhavcopy", "", "downloading", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDataError("bhavcopy", "",
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, date.Format("2006-01-02")), nil)
	}

	// The feed pads header names and fields with spaces.
	reader := csv.NewReader(resp.Body)
	reader.TrimLeadingSpace = true

	var rows []bhavcopyRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, apperrors.NewDataError("bhavcopy", "", "parsing csv", err)
	}

	bars := make([]models.SessionBar, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Series) != "EQ" {
			continue
		}
		bar, ok := row.toBar()
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (r bhavcopyRow) toBar() (models.SessionBar, bool) {
	open, err1 := models.ParseMoney(r.Open)
	high, err2 := models.ParseMoney(r.High)
	low, err3 := models.ParseMoney(r.Low)
	closePx, err4 := models.ParseMoney(r.Close)
	volume, err5 := strconv.ParseInt(strings.TrimSpace(r.Volume), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.SessionBar{}, false
	}
	bar := models.SessionBar{
		Symbol: strings.TrimSpace(r.Symbol),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}
	return bar, bar.Valid()
}
