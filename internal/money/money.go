// Package money wraps shopspring/decimal for USD amounts with two-decimal
// display.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromInt creates a decimal amount from whole dollars
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Sum sums a slice of amounts
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// FormatUSD renders an amount as "$1234.50". Negative amounts keep the sign
// between the dollar sign and digits, matching the summary display.
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
