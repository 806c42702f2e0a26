package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const iskPrecision = 2

// SafeScale multiplies a per-unit amount by a quantity, clamping negative
// inputs to zero. Value and volume totals are always non-negative products of
// non-negative factors.
func SafeScale(unit decimal.Decimal, quantity int64) decimal.Decimal {
	if unit.IsNegative() || quantity < 0 {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(quantity))
}

// SafeSum adds two decimals.
func SafeSum(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// FormatISK renders an ISK amount with wallet precision (2 decimal places),
// stripping trailing zeros.
func FormatISK(d decimal.Decimal) string {
	s := d.Round(iskPrecision).StringFixed(iskPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
