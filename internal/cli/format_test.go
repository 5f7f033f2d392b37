// Package cli provides the command-line interface for the momentum bot.
package cli

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"momentum-trader/internal/models"
)

func TestFormatIndianCurrency(t *testing.T) {
	tests := []struct {
		paise models.Money
		want  string
	}{
		{0, "₹0.00"},
		{10600, "₹106.00"},
		{123456, "₹1,234.56"},
		{1000000000, "₹1,00,00,000.00"}, // 1 crore
		{12345678900, "₹12,34,56,789.00"},
		{-1230, "-₹12.30"},
	}
	for _, tt := range tests {
		if got := FormatIndianCurrency(tt.paise); got != tt.want {
			t.Errorf("FormatIndianCurrency(%d) = %q, want %q", tt.paise, got, tt.want)
		}
	}
}

// Property: the Indian grouping is structurally valid for any amount:
// rupee prefix, two decimals, a first group of up to 3 digits and
// subsequent groups of exactly 2.
func TestProperty_IndianCurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	indianFormat := regexp.MustCompile(`^₹(\d{1,3}|\d{1,2}(,\d{2})*,\d{3})\.\d{2}$`)

	properties.Property("grouping and decimals are well formed", prop.ForAll(
		func(paise int64) bool {
			formatted := FormatIndianCurrency(models.Money(paise))

			if paise < 0 {
				if !strings.HasPrefix(formatted, "-₹") {
					return false
				}
				formatted = formatted[1:]
			}
			if !indianFormat.MatchString(formatted) {
				t.Logf("malformed: %s (paise %d)", formatted, paise)
				return false
			}

			// Parsing the digits back must reproduce the amount exactly.
			digits := strings.NewReplacer("₹", "", ",", "", ".", "").Replace(formatted)
			back, err := models.ParseMoney(insertDecimal(digits))
			if err != nil {
				return false
			}
			if paise < 0 {
				back = -back
			}
			return back == models.Money(paise)
		},
		gen.Int64Range(-100_000_000_00, 10_000_000_000_00),
	))

	properties.TestingRun(t)
}

func insertDecimal(digits string) string {
	return digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

func TestFormatPercentPlain(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{6.0, "+6.00%"},
		{-2.0, "-2.00%"},
		{0, "0.00%"},
	}
	for _, tt := range tests {
		if got := FormatPercentPlain(tt.in); got != tt.want {
			t.Errorf("FormatPercentPlain(%f) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
