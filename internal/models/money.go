package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in minor units (cents).
// It is currency-agnostic: whatever currency the group settles in, amounts
// are carried as integer cents so that splits and comparisons are exact.
type Money int64

// ParseMoney converts a decimal string like "120" or "33.50" to Money.
// Amounts with sub-cent precision or a negative sign are rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", s)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", s)
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with two decimal places, e.g. "33.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
