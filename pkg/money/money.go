// Package money holds the small decimal helpers shared by the projection
// engine and the report formatters.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Percent converts a percentage such as 5 into the fraction 0.05.
func Percent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// MonthlyRate converts an annual percentage rate into a monthly fraction.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(hundred).Div(twelve)
}

// Min returns the smaller of two amounts
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// NonNegative floors an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds up a list of amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Round rounds an amount to whole cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount with thousands separators and two decimals,
// e.g. -1234567.891 -> "-1,234,567.89".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if sign != "" && strings.Trim(intPart+frac, "0.,") == "" {
		sign = ""
	}
	return sign + b.String() + frac
}
