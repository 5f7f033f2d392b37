package models

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"106.00", 10600, false},
		{"1,234.56", 123456, false},
		{"  95.5 ", 9550, false},
		{"0.01", 1, false},
		{"-12.30", -1230, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) expected error, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMoney(%q) = %d paise, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{10600, "106.00"},
		{123456, "1234.56"},
		{5, "0.05"},
		{-1230, "-12.30"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMoneyScaleEntryTarget(t *testing.T) {
	// The close-confirmation target for a 106.00 close is exactly 107.06,
	// with no float drift.
	target := MoneyFromRupees(106).Scale(1.01)
	if target != 10706 {
		t.Fatalf("106.00 * 1.01 = %s, want 107.06", target)
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		entry, current Money
		want           float64
	}{
		{10000, 10600, 6.0},
		{10000, 9500, -5.0},
		{10000, 10000, 0.0},
		{0, 10000, 0.0},
	}
	for _, tt := range tests {
		if got := PctChange(tt.entry, tt.current); got != tt.want {
			t.Errorf("PctChange(%d, %d) = %f, want %f", tt.entry, tt.current, got, tt.want)
		}
	}
}

// Property: String output always parses back to the identical amount.
func TestProperty_MoneyStringParseRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("String then ParseMoney is the identity", prop.ForAll(
		func(paise int64) bool {
			m := Money(paise)
			back, err := ParseMoney(m.String())
			return err == nil && back == m
		},
		gen.Int64Range(-1_000_000_00, 100_000_000_00),
	))

	properties.TestingRun(t)
}

// Property: realized P&L from integer paise arithmetic is exact, so
// summing per-trade amounts in any order gives the same daily total.
func TestProperty_MulQtyDistributesOverQuantity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("(a-b)*q == a*q - b*q in paise", prop.ForAll(
		func(exitPaise, entryPaise int64, qty int) bool {
			exit, entry := Money(exitPaise), Money(entryPaise)
			return (exit - entry).MulQty(qty) == exit.MulQty(qty)-entry.MulQty(qty)
		},
		gen.Int64Range(1, 50_000_00),
		gen.Int64Range(1, 50_000_00),
		gen.IntRange(1, 10_000),
	))

	properties.TestingRun(t)
}
