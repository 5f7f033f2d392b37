package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-trader/pkg/utils"
)

const holidayPayload = `{
	"CM": [
		{"tradingDate": "26-Jan-2026", "weekDay": "Monday", "description": "Republic Day"},
		{"tradingDate": "02-Oct-2026", "weekDay": "Friday", "description": "Gandhi Jayanti"},
		{"tradingDate": "not-a-date", "weekDay": "", "description": "malformed row"}
	],
	"FO": [
		{"tradingDate": "15-Aug-2026", "weekDay": "Saturday", "description": "derivatives only"}
	]
}`

func TestHolidaysParsesEquitiesSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(holidayPayload))
	}))
	defer srv.Close()

	p := NewNSEHolidayProvider(srv.URL, time.Second)
	set, err := p.Holidays(context.Background())

	require.NoError(t, err)
	assert.Len(t, set, 2, "malformed rows are dropped, other segments ignored")
	assert.True(t, set.Contains(time.Date(2026, time.January, 26, 0, 0, 0, 0, utils.IndiaLocation)))
	assert.True(t, set.Contains(time.Date(2026, time.October, 2, 0, 0, 0, 0, utils.IndiaLocation)))
	assert.False(t, set.Contains(time.Date(2026, time.August, 15, 0, 0, 0, 0, utils.IndiaLocation)))
}

func TestHolidaysMissingSegmentIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"FO": []}`))
	}))
	defer srv.Close()

	p := NewNSEHolidayProvider(srv.URL, time.Second)
	_, err := p.Holidays(context.Background())
	assert.Error(t, err)
}

func TestHolidaysHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewNSEHolidayProvider(srv.URL, time.Second)
	_, err := p.Holidays(context.Background())
	assert.Error(t, err)
}
