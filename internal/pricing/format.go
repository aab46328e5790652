package pricing

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCurrency renders integer cents as a dollar string with thousands
// separators and two decimal places. Negative amounts carry the sign before
// the currency symbol: -$12.00.
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := cents / 100
	rem := cents % 100

	s := strconv.FormatInt(dollars, 10)
	// Insert a comma every three digits from the right.
	var grouped []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped, rem)
}

// Percentage returns part/whole as a percent rounded to two decimal places.
// A zero denominator yields 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// Summary renders a one-line human-readable description of a result, used by
// the pricing review screen and in logs.
func Summary(res Result) string {
	s := fmt.Sprintf("%d item(s), subtotal %s", len(res.Breakdown.Items), FormatCurrency(res.SubtotalCents))
	if res.Breakdown.RushApplied {
		s += fmt.Sprintf(", rush %s", FormatCurrency(res.RushFeeCents))
	}
	s += fmt.Sprintf(", tax %s, total %s", FormatCurrency(res.TaxCents), FormatCurrency(res.TotalCents))
	return s
}
