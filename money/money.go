// Package money centralizes monetary arithmetic and display formatting so
// every surface (checkout, receipts, reports) agrees on rounding and on the
// fixed currency prefix.
package money

import (
	"github.com/shopspring/decimal"
)

// Subtotal returns quantity * unitPrice as an exact decimal.
func Subtotal(quantity int, unitPrice float64) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds a series of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders an amount with the fixed currency prefix and exactly two
// decimal places, e.g. "Rs 25.00".
func Format(prefix string, amount decimal.Decimal) string {
	return prefix + amount.StringFixed(2)
}

// FormatFloat is Format for values read back from REAL columns.
func FormatFloat(prefix string, amount float64) string {
	return Format(prefix, decimal.NewFromFloat(amount))
}
