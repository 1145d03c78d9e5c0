package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatQuantity renders a crypto quantity with up to 8 decimals, trimming
// trailing zeros but always keeping at least two places so "1" reads "1.00".
func FormatQuantity(q decimal.Decimal) string {
	s := q.Round(8)
	trimmed := s.Truncate(2)
	if s.Equal(trimmed) {
		return trimmed.StringFixed(2)
	}
	return s.String()
}

// FormatUSD renders a fiat value with two decimals and a dollar sign.
func FormatUSD(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// FormatPercent renders a signed percentage with an arrow indicator.
func FormatPercent(p decimal.Decimal) string {
	switch p.Sign() {
	case 1:
		return "▲ +" + p.StringFixed(2) + "%"
	case -1:
		return "▼ " + p.StringFixed(2) + "%"
	default:
		return "  " + p.StringFixed(2) + "%"
	}
}

// FormatTimestamp renders an execution time for table rows.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("02 Jan 2006 15:04")
}

// Pair builds the conventional pair label for a primary ticker.
func Pair(ticker string) string {
	return ticker + "/" + QuoteTicker
}
