package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary value with four fractional digits of
// precision. Construction rounds half away from zero; arithmetic on two
// Amounts is exact and stays within four digits.
type Amount struct {
	value decimal.Decimal
}

// places is the fixed fractional precision for all amounts.
const places = 4

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{value: decimal.Zero}
}

// FromString creates an Amount from a decimal string, rounding to four
// fractional digits.
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount: %w", err)
	}
	// decimal.Round is half away from zero
	return Amount{value: d.Round(places)}, nil
}

// FromFloat creates an Amount from a float64, rounding to four fractional
// digits.
func FromFloat(f float64) Amount {
	return Amount{value: decimal.NewFromFloat(f).Round(places)}
}

// Add adds two amounts.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value)}
}

// Sub subtracts other from a. The result may be negative; callers decide
// whether that is allowed.
func (a Amount) Sub(other Amount) Amount {
	return Amount{value: a.value.Sub(other.value)}
}

// Cmp compares two amounts, returning -1, 0 or 1.
func (a Amount) Cmp(other Amount) int {
	return a.value.Cmp(other.value)
}

// GreaterThan reports whether a > other.
func (a Amount) GreaterThan(other Amount) bool {
	return a.value.GreaterThan(other.value)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// String formats the amount with exactly four decimal places.
func (a Amount) String() string {
	return a.value.StringFixed(places)
}
