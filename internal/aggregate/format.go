package aggregate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"merlin/internal/models"
)

// DefaultCurrencySymbol is used when no symbol is configured.
const DefaultCurrencySymbol = "£"

var titleCaser = cases.Title(language.English)

// FormatCurrency renders d with exactly two decimals, rounding half away
// from zero. Negative values put the sign before the symbol: -£40.00.
func FormatCurrency(d decimal.Decimal, symbol string) string {
	fixed := d.Abs().StringFixed(2)
	if d.Round(2).IsNegative() {
		return "-" + symbol + fixed
	}
	return symbol + fixed
}

// FormatSigned renders an entry amount with an explicit sign: +£100.00 or -£40.00.
// The sign follows the rounded value, so anything that shows as zero is +£0.00.
func FormatSigned(d decimal.Decimal, symbol string) string {
	fixed := d.Abs().StringFixed(2)
	if d.Round(2).IsNegative() {
		return "-" + symbol + fixed
	}
	return "+" + symbol + fixed
}

// FormatDate renders an ISO date (or RFC 3339 timestamp) as "Mar 14, 2025".
// Unparseable input is returned unchanged; empty input yields "".
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 02, 2006")
		}
	}
	return raw
}

// DisplayCategory turns a category label into its row caption:
// "house-bill" becomes "House Bill" and an empty label becomes "Uncategorized".
func DisplayCategory(label string) string {
	if label == "" {
		return models.UncategorizedLabel
	}
	return titleCaser.String(strings.ReplaceAll(label, "-", " "))
}
