package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"PriceBoard/internal/model"
)

// Header is the summary header text for one PriceStats value.
type Header struct {
	Price  string `json:"price"`  // "$63,123.45"
	Change string `json:"change"` // "+1,234.56 (1.99%)"
	Rising bool   `json:"rising"`
}

// FormatCurrency renders v with thousands separators and exactly two decimals.
func FormatCurrency(v float64) string {
	return humanize.FormatFloat("#,###.##", round2(v))
}

// FormatPercent renders v with exactly two decimals, no sign prefix for positives.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatHeader builds the summary header. Non-negative changes get a "+"
// prefix; negative ones carry a "-" even when they round to zero.
func FormatHeader(stats model.PriceStats) Header {
	change := FormatCurrency(stats.AbsoluteChange)
	percent := FormatPercent(stats.PercentChange)
	if stats.Rising() {
		change = "+" + change
	} else {
		change = keepMinus(change)
	}
	if stats.PercentChange < 0 {
		percent = keepMinus(percent)
	}
	return Header{
		Price:  "$" + FormatCurrency(stats.CurrentPrice),
		Change: fmt.Sprintf("%s (%s%%)", change, percent),
		Rising: stats.Rising(),
	}
}

// keepMinus restores the sign of a negative value that rounded to zero.
func keepMinus(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "-" + s
}

// FormatSummary is the Summary tab one-liner for a selection.
func FormatSummary(sel model.Selection) string {
	var b strings.Builder
	first, ok := sel.Series.First()
	if !ok {
		return "No data."
	}
	last, _ := sel.Series.Last()
	h := FormatHeader(sel.Stats)
	b.WriteString(fmt.Sprintf("%s: %d daily points from %s to %s. ", sel.Range.Label, len(sel.Series), first.Date, last.Date))
	b.WriteString(fmt.Sprintf("Last price %s, change %s.", h.Price, h.Change))
	return b.String()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
