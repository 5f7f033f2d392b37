package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-trader/internal/models"
	"momentum-trader/pkg/utils"
)

// sampleBhavcopy mimics the real feed: padded headers and fields,
// mixed series, and "-" placeholders for missing values.
const sampleBhavcopy = `SYMBOL, SERIES, DATE1, PREV_CLOSE, OPEN_PRICE, HIGH_PRICE, LOW_PRICE, LAST_PRICE, CLOSE_PRICE, AVG_PRICE, TTL_TRD_QNTY
RELIANCE, EQ, 25-Aug-2026, 2450.00, 2460.00, 2520.00, 2455.00, 2510.00, 2505.50, 2490.00, 5000000
NIFTYBEES, BE, 25-Aug-2026, 250.00, 251.00, 255.00, 250.00, 254.00, 253.00, 252.00, 100000
BROKEN, EQ, 25-Aug-2026, -, -, -, -, -, -, -, -
TCS, EQ, 25-Aug-2026, 3500.00, 3510.00, 3600.00, 3505.00, 3590.00, 3580.25, 3550.00, 2000000
`

func TestFetchSessionBars(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(sampleBhavcopy))
	}))
	defer srv.Close()

	src := NewNSEBhavcopySource(srv.URL, time.Second)
	date := time.Date(2026, time.August, 25, 0, 0, 0, 0, utils.IndiaLocation)
	bars, err := src.FetchSessionBars(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, "/sec_bhavdata_full_25082026.csv", gotPath)

	// BE series and the "-" row are dropped; two EQ rows survive.
	require.Len(t, bars, 2)

	reliance := bars[0]
	assert.Equal(t, "RELIANCE", reliance.Symbol)
	assert.Equal(t, models.MoneyFromRupees(2460), reliance.Open)
	assert.Equal(t, models.MoneyFromRupees(2520), reliance.High)
	assert.Equal(t, models.MoneyFromRupees(2505.50), reliance.Close)
	assert.Equal(t, int64(5000000), reliance.Volume)

	assert.Equal(t, "TCS", bars[1].Symbol)
	assert.Equal(t, models.MoneyFromRupees(3580.25), bars[1].Close)
}

func TestFetchSessionBarsMissingDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewNSEBhavcopySource(srv.URL, time.Second)
	_, err := src.FetchSessionBars(context.Background(),
		time.Date(2026, time.August, 23, 0, 0, 0, 0, utils.IndiaLocation))
	assert.Error(t, err, "a holiday or weekend bhavcopy does not exist")
}

func TestBhavcopyRowToBar(t *testing.T) {
	tests := []struct {
		name string
		row  bhavcopyRow
		ok   bool
	}{
		{
			name: "valid row",
			row:  bhavcopyRow{Symbol: " ABC ", Open: "100.00", High: "110.00", Low: "99.00", Close: "105.00", Volume: " 1000 "},
			ok:   true,
		},
		{
			name: "dash placeholder",
			row:  bhavcopyRow{Symbol: "ABC", Open: "-", High: "-", Low: "-", Close: "-", Volume: "-"},
			ok:   false,
		},
		{
			name: "zero volume invalid",
			row:  bhavcopyRow{Symbol: "ABC", Open: "100", High: "110", Low: "99", Close: "105", Volume: "0"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar, ok := tt.row.toBar()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, "ABC", bar.Symbol, "symbol must be trimmed")
			}
		})
	}
}
