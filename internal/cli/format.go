// Package cli provides the command-line interface for the momentum bot.
package cli

import (
	"fmt"
	"strings"
	"time"

	"momentum-trader/internal/models"
)

// FormatIndianCurrency formats a rupee amount in the Indian numbering
// system (lakhs and crores).
func FormatIndianCurrency(amount models.Money) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := amount.String()
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "₹" + formatIndianNumber(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// formatIndianNumber groups digits Indian-style: 1,00,00,000 (1 crore)
// rather than the Western 10,000,000.
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from the right, then groups of 2.
	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}
	return result
}

// FormatPrice formats a price with the rupee symbol.
func FormatPrice(price models.Money) string {
	return "₹" + price.String()
}

// FormatPercentPlain formats a percentage with sign, without color.
func FormatPercentPlain(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTime formats a time as HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDateTime formats a full timestamp.
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
