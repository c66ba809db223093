package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseAmount parses a positive monetary amount with at most two decimal
// places. Amounts are exact decimals end to end; nothing here touches
// binary floating point.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	return amount, nil
}

// Format renders an amount with two decimal places for API responses.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
