package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount of Indian rupees held as whole paise.
// All currency arithmetic in the engine stays in scaled integers so that
// repeated P&L recomputation cannot drift; only display code converts back
// to rupees.
type Money int64

const paisePerRupee = 100

// MoneyFromRupees converts a rupee amount to Money, rounding to the
// nearest paisa.
func MoneyFromRupees(r float64) Money {
	return Money(math.Round(r * paisePerRupee))
}

// ParseMoney parses a decimal rupee string such as "1,234.56" into Money.
// Thousands separators are tolerated because quote pages include them.
func ParseMoney(s string) (Money, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("parsing money: empty value")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing money %q: %w", s, err)
	}
	return MoneyFromRupees(v), nil
}

// Rupees returns the amount as a float64 rupee value. For display only.
func (m Money) Rupees() float64 {
	return float64(m) / paisePerRupee
}

// MulQty multiplies a per-share amount by a share count.
func (m Money) MulQty(qty int) Money {
	return m * Money(qty)
}

// Scale multiplies by an arbitrary factor, rounding to the nearest paisa.
// Used for entry targets such as 1.01 x previous close.
func (m Money) Scale(factor float64) Money {
	return Money(math.Round(float64(m) * factor))
}

// String formats the amount as a plain decimal, e.g. "1234.56" or "-0.05".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/paisePerRupee, v%paisePerRupee)
}

// PctChange returns the percentage change from entry to current.
// Returns 0 when entry is zero; callers never admit zero-priced entries.
func PctChange(entry, current Money) float64 {
	if entry == 0 {
		return 0
	}
	return float64(current-entry) / float64(entry) * 100.0
}
