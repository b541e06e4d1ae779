package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every stored amount.
const MoneyScale int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to two decimal places, half away from zero.
// All derived monetary and percentage fields go through here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// SumMoney adds the amounts and rounds the total once.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return RoundMoney(total)
}

// DivideMoney divides and rounds, returning zero when the divisor is zero.
func DivideMoney(numerator decimal.Decimal, divisor int64) decimal.Decimal {
	if divisor == 0 {
		return decimal.Zero
	}
	return RoundMoney(numerator.Div(decimal.NewFromInt(divisor)))
}

// Percentage returns part/whole*100 rounded, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(part.Div(whole).Mul(hundred))
}

// ParseMoney parses a decimal string and rejects negative amounts.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return d, nil
}
