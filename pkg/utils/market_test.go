package utils

import (
	"testing"
	"time"

	"momentum-trader/internal/models"
)

func ist(hour, min int) time.Time {
	// 2026-08-26 is a Wednesday.
	return time.Date(2026, time.August, 26, hour, min, 0, 0, IndiaLocation)
}

func TestIsMarketHours(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before open", ist(9, 14), false},
		{"at open", ist(9, 15), true},
		{"midday", ist(12, 30), true},
		{"after square-off, before outer close", ist(15, 20), true},
		{"at outer close", ist(15, 30), true},
		{"after outer close", ist(15, 31), false},
		{"saturday", time.Date(2026, time.August, 29, 12, 0, 0, 0, IndiaLocation), false},
		{"sunday", time.Date(2026, time.August, 30, 12, 0, 0, 0, IndiaLocation), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarketHours(tt.at); got != tt.want {
				t.Errorf("IsMarketHours(%s) = %v, want %v", tt.at.Format("Mon 15:04"), got, tt.want)
			}
		})
	}
}

func TestStatusAt(t *testing.T) {
	tests := []struct {
		at   time.Time
		want models.MarketStatus
	}{
		{ist(8, 30), models.MarketClosed},
		{ist(9, 5), models.MarketPreOpen},
		{ist(10, 0), models.MarketOpen},
		{ist(15, 14), models.MarketOpen},
		{ist(15, 20), models.MarketPostClose},
		{ist(16, 0), models.MarketClosed},
		{time.Date(2026, time.August, 29, 10, 0, 0, 0, IndiaLocation), models.MarketClosed},
	}
	for _, tt := range tests {
		if got := StatusAt(tt.at); got != tt.want {
			t.Errorf("StatusAt(%s) = %s, want %s", tt.at.Format("Mon 15:04"), got, tt.want)
		}
	}
}

func TestSessionBoundaries(t *testing.T) {
	now := ist(11, 42)
	if got := EntryGate(now); got.Hour() != 9 || got.Minute() != 20 {
		t.Errorf("EntryGate = %s", got.Format("15:04"))
	}
	if got := SessionClose(now); got.Hour() != 15 || got.Minute() != 15 {
		t.Errorf("SessionClose = %s", got.Format("15:04"))
	}
	if got := EODTaskTime(now); got.Hour() != 15 || got.Minute() != 20 {
		t.Errorf("EODTaskTime = %s", got.Format("15:04"))
	}
	if got := MonitorCutoff(now); got.Hour() != 15 || got.Minute() != 25 {
		t.Errorf("MonitorCutoff = %s", got.Format("15:04"))
	}
}

func TestSameDateAcrossZones(t *testing.T) {
	// 2026-08-26 01:00 IST is still 2026-08-25 in UTC; SameDate must
	// compare IST calendar dates.
	early := time.Date(2026, time.August, 26, 1, 0, 0, 0, IndiaLocation)
	utcSame := early.UTC()
	if !SameDate(early, utcSame) {
		t.Error("the same instant must be on the same IST date regardless of zone")
	}
	if SameDate(early, early.AddDate(0, 0, -1)) {
		t.Error("different IST dates must not compare equal")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-26")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(DateOf(ist(12, 0))) {
		t.Errorf("ParseDate = %s, want IST midnight of the 26th", d)
	}
	if _, err := ParseDate("26/08/2026"); err == nil {
		t.Error("wrong layout must error")
	}
}
